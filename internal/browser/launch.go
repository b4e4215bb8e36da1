package browser

// LaunchConfig is how a browser instance is started. It is resolved once at
// process start and handed to the Driver.
type LaunchConfig struct {
	Headless       bool
	ExecutablePath string
	Args           []string
	// Managed is set on hosted deployments with tight memory and no GPU.
	Managed bool
}

var baseArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-blink-features=AutomationControlled",
	"--disable-features=IsolateOrigins,site-per-process",
	"--window-size=1920,1080",
}

// managedArgs trim memory and background work on small hosted containers.
var managedArgs = []string{
	"--disable-dev-shm-usage",
	"--disable-accelerated-2d-canvas",
	"--disable-gpu",
	"--disable-software-rasterizer",
	"--disable-extensions",
	"--disable-background-networking",
	"--disable-sync",
	"--disable-translate",
	"--hide-scrollbars",
	"--metrics-recording-only",
	"--mute-audio",
	"--no-first-run",
	"--no-zygote",
	"--single-process",
	"--disable-notifications",
}

// NewLaunchConfig builds the flag set for the deployment mode. The
// resource-constrained flags are only added for headless managed runs.
func NewLaunchConfig(managed bool, executablePath string, headless bool) LaunchConfig {
	args := append([]string(nil), baseArgs...)
	if managed && headless {
		args = append(args, managedArgs...)
	}
	return LaunchConfig{
		Headless:       headless,
		ExecutablePath: executablePath,
		Args:           args,
		Managed:        managed,
	}
}

// Headed returns a copy of c for a visible window. Flags that only make
// sense without a display are dropped.
func (c LaunchConfig) Headed() LaunchConfig {
	headed := NewLaunchConfig(false, c.ExecutablePath, false)
	headed.Managed = c.Managed
	return headed
}
