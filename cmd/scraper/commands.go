package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"sales-tracker-scraper/internal/app"
	"sales-tracker-scraper/internal/session"

	"github.com/spf13/cobra"
)

func newScrapeCmd(opts *rootOptions) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Extract one job posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, app.Options{}, func(a *app.App) error {
				result := a.Service.ScrapeJobPosting(cmd.Context(), args[0], owner)
				if err := printJSON(cmd, result); err != nil {
					return err
				}
				if !result.Success {
					return errors.New(result.Error)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "user whose LinkedIn session to use")
	return cmd
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var install bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to LinkedIn in a visible browser and save the session",
		Long: `login opens a browser window on the LinkedIn sign-in page and waits up to
five minutes for you to finish signing in. The session is saved to the shared slot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, app.Options{InstallBrowsers: install}, func(a *app.App) error {
				result := a.Service.InteractiveLogin(cmd.Context())
				if err := printJSON(cmd, result); err != nil {
					return err
				}
				if !result.Success {
					return errors.New(result.Error)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&install, "install", false, "download the Playwright browsers first")
	return cmd
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether a LinkedIn session is saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, app.Options{SkipBrowser: true}, func(a *app.App) error {
				return printJSON(cmd, map[string]any{"authenticated": a.Store.HasSaved()})
			})
		},
	}
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete saved sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, app.Options{SkipBrowser: true}, func(a *app.App) error {
				result, err := a.Store.Clear(cmd.Context(), owner)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "also delete this user's stored session")
	return cmd
}

func newUploadCmd(opts *rootOptions) *cobra.Command {
	var owner, userAgent, platform string
	cmd := &cobra.Command{
		Use:   "upload <cookies.json>",
		Short: "Save cookies exported from a browser",
		Long: `upload stores a cookie export. The file may hold a plain array of cookies or an
object {"cookies": [...], "userAgent": "...", "platform": "..."}.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upload, err := readUpload(args[0])
			if err != nil {
				return err
			}
			if userAgent != "" {
				upload.UserAgent = userAgent
			}
			if platform != "" {
				upload.Platform = platform
			}

			return withApp(cmd.Context(), opts, app.Options{SkipBrowser: true}, func(a *app.App) error {
				sess, err := a.Store.Save(cmd.Context(), owner, upload.Cookies, upload.UserAgent, upload.Platform)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{
					"success":     true,
					"message":     "LinkedIn cookies uploaded successfully",
					"cookieCount": len(sess.Cookies),
				})
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "user the session belongs to (shared slot when empty)")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "user agent the cookies were issued to")
	cmd.Flags().StringVar(&platform, "platform", "", "navigator.platform of that browser")
	return cmd
}

type uploadFile struct {
	Cookies   []session.Cookie `json:"cookies"`
	UserAgent string           `json:"userAgent"`
	Platform  string           `json:"platform"`
}

func readUpload(path string) (*uploadFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cookies []session.Cookie
	if err := json.Unmarshal(data, &cookies); err == nil {
		return &uploadFile{Cookies: cookies}, nil
	}

	var upload uploadFile
	if err := json.Unmarshal(data, &upload); err != nil {
		return nil, fmt.Errorf("parse %s: expected a cookie array or a session object: %w", path, err)
	}
	return &upload, nil
}
