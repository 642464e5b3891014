package flags

const (
	// SiteRootFlagName exposes the shared site root flag name.
	SiteRootFlagName = "root"
	// SiteRootFlagUsage describes the shared site root flag purpose.
	SiteRootFlagUsage = "Directory containing the site HTML files"
	// BaseURLFlagName exposes the shared base URL flag name.
	BaseURLFlagName = "base-url"
	// BaseURLFlagUsage describes the shared base URL flag purpose.
	BaseURLFlagUsage = "Base URL of the site under test"
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Preview changes without writing files"
	// HeadlessFlagName exposes the shared headless browser flag name.
	HeadlessFlagName = "headless"
	// HeadlessFlagUsage describes the shared headless browser flag purpose.
	HeadlessFlagUsage = "Run the browser without a visible window"
	// ScreenshotDirectoryFlagName exposes the shared screenshot directory flag name.
	ScreenshotDirectoryFlagName = "screenshot-dir"
	// ScreenshotDirectoryFlagUsage describes the shared screenshot directory flag purpose.
	ScreenshotDirectoryFlagUsage = "Directory receiving captured screenshots"
	// ReportFlagName exposes the shared Markdown report flag name.
	ReportFlagName = "report"
	// ReportFlagUsage describes the shared Markdown report flag purpose.
	ReportFlagUsage = "Write a Markdown report to this path"
)
