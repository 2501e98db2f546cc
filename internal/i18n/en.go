package i18n

var en = map[string]string{
	// Widget
	"title_home":    "WiFi",
	"title_default": "Usage",
	"limit":         "Limit: %s",
	"used":          "Used: %s",

	// Login prompt
	"login_title":          "Login",
	"login_message":        "Please enter your username, password, and subscriber ID.",
	"login_username":       "Username (e.g. john@mail.com)",
	"login_password":       "Password",
	"login_subscriber":     "Subscriber ID (e.g. 94812232278)",
	"login_help":           "tab: next field  enter: submit  esc: cancel",
	"login_missing_fields": "All three fields are required",

	// Watch view
	"watch_title":       "SLT Usage",
	"watch_loading":     "Refreshing usage...",
	"watch_last_run":    "Updated %s",
	"watch_next_run":    "next refresh in %s",
	"watch_help":        "r: refresh  f: reload renderer  ?: help  q: quit",
	"watch_error":       "Refresh failed: %s",
	"watch_login_hint":  "Stored login was cleared. Run `slt-usage login` and press r.",
	"watch_config_hint": "Config reloaded",
	"watch_waiting":     "Waiting for first refresh",

	// Help overlay
	"help_title":       "Keyboard shortcuts",
	"help_refresh":     "Refresh usage now",
	"help_force":       "Download the renderer again and refresh",
	"help_toggle_help": "Toggle this help",
	"help_quit":        "Quit",
	"help_close":       "Press ? or esc to close",
}
