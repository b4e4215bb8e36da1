package browser

import (
	"math/rand"
	"time"
)

// StealthScript runs before any page script. It hides the automation flag,
// fakes plugins and languages, stubs window.chrome and answers notification
// permission queries the way a normal profile would.
const StealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => false });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
window.chrome = { runtime: {} };
if (window.navigator.permissions) {
	const originalQuery = window.navigator.permissions.query;
	window.navigator.permissions.query = (parameters) => (
		parameters.name === 'notifications'
			? Promise.resolve({ state: Notification.permission })
			: originalQuery(parameters)
	);
}
`

// RandomDelay pauses execution for a random time between min and max (milliseconds)
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := time.Duration(rand.Intn(max-min)+min) * time.Millisecond
	time.Sleep(duration)
}

// HumanDelay is the default post-navigation dwell: 2-4 seconds.
func HumanDelay() {
	RandomDelay(2000, 4000)
}

// NoDelay skips the dwell.
func NoDelay() {}
