package mcp

import "github.com/mark3labs/mcp-go/mcp"

const statusHelp = "to_contact, message_sent, follow_up_needed, in_conversation, call_scheduled, call_completed, no_response or on_hold"

func contactFieldOptions(requireCore bool) []mcp.ToolOption {
	core := func(desc string) []mcp.PropertyOption {
		opts := []mcp.PropertyOption{mcp.Description(desc)}
		if requireCore {
			opts = append(opts, mcp.Required())
		}
		return opts
	}
	return []mcp.ToolOption{
		mcp.WithString("name", core("Full name, at most 100 characters")...),
		mcp.WithString("title", core("Job title")...),
		mcp.WithString("company", core("Company name")...),
		mcp.WithString("linkedin_url", core("LinkedIn profile URL; must contain linkedin.com/")...),
		mcp.WithString("industry", mcp.Description("Industry, e.g. SaaS, Robotics, Energy")),
		mcp.WithString("status", mcp.Description("Pipeline status: "+statusHelp+". Labels such as \"Call Scheduled\" are accepted")),
		mcp.WithString("date_messaged", mcp.Description("Date first messaged, YYYY-MM-DD")),
		mcp.WithString("follow_up_date", mcp.Description("Next follow-up date, YYYY-MM-DD")),
		mcp.WithString("notes", mcp.Description("Free-form notes (markdown)")),
		mcp.WithString("connection_type", mcp.Description("How the contact was reached, e.g. Cold, Warm Intro, Alumni, Referral")),
		mcp.WithBoolean("response_received", mcp.Description("Whether the contact has replied")),
		mcp.WithBoolean("call_scheduled", mcp.Description("Whether a call is booked")),
		mcp.WithString("call_date", mcp.Description("Call date, YYYY-MM-DD")),
	}
}

var addToolDef = mcp.NewTool("contact_add", append([]mcp.ToolOption{
	mcp.WithDescription("Add a contact to the outreach tracker. Returns the stored contact with its new id."),
}, contactFieldOptions(true)...)...)

var updateToolDef = mcp.NewTool("contact_update", append([]mcp.ToolOption{
	mcp.WithDescription("Replace the editable fields of a contact. Send every field; omitted optional fields are cleared."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Contact id")),
}, contactFieldOptions(true)...)...)

var fetchToolDef = mcp.NewTool("contact_fetch",
	mcp.WithDescription("Fetch one contact with its follow-up classification (overdue, due today, due this week)."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("id", mcp.Required(), mcp.Description("Contact id")),
)

var deleteToolDef = mcp.NewTool("contact_delete",
	mcp.WithDescription("Permanently delete one contact."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("id", mcp.Required(), mcp.Description("Contact id")),
)

var listToolDef = mcp.NewTool("contact_list",
	mcp.WithDescription("List contacts with search, filters, sort and pagination. Also returns overdue and due-today counts for the whole collection."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("search", mcp.Description("Case-insensitive text matched against name, title, company and notes")),
	mcp.WithArray("status", mcp.Description("Keep contacts in any of these statuses"), mcp.WithStringItems()),
	mcp.WithArray("industry", mcp.Description("Keep contacts in any of these industries"), mcp.WithStringItems()),
	mcp.WithString("follow_up", mcp.Description("Follow-up window"), mcp.Enum("all", "today", "overdue", "week", "none")),
	mcp.WithString("sort", mcp.Description("Sort field"), mcp.Enum("name", "title", "company", "status", "industry", "follow_up_date", "date_messaged", "call_date", "created_at", "updated_at")),
	mcp.WithString("order", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
	mcp.WithNumber("page", mcp.Description("1-indexed page; out-of-range values are clamped")),
	mcp.WithNumber("page_size", mcp.Description("Contacts per page, 1-100 (default from config)")),
)

var alertsToolDef = mcp.NewTool("contact_alerts",
	mcp.WithDescription("Count overdue and due-today follow-ups across all contacts."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var bulkStatusToolDef = mcp.NewTool("contact_bulk_status",
	mcp.WithDescription("Set the status of several contacts at once. Unknown ids are reported, not fatal."),
	mcp.WithArray("ids", mcp.Required(), mcp.Description("Contact ids (max 500)"), mcp.WithStringItems()),
	mcp.WithString("status", mcp.Required(), mcp.Description("New status: "+statusHelp)),
)

var bulkDeleteToolDef = mcp.NewTool("contact_bulk_delete",
	mcp.WithDescription("Permanently delete several contacts at once. Unknown ids are reported, not fatal."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithArray("ids", mcp.Required(), mcp.Description("Contact ids (max 500)"), mcp.WithStringItems()),
)

var exportToolDef = mcp.NewTool("contact_export",
	mcp.WithDescription("Export every contact to a JSONL file. Defaults to ~/.outreach/exports/<label>-<timestamp>.jsonl."),
	mcp.WithString("path", mcp.Description("Output path; must be inside ~/.outreach/exports or an allowed_paths entry")),
	mcp.WithString("label", mcp.Description("File name prefix for the default path")),
)

var importToolDef = mcp.NewTool("contact_import",
	mcp.WithDescription("Import contacts from a JSONL export. Contacts keep their ids and timestamps."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Path to the .jsonl file")),
	mcp.WithString("mode", mcp.Description("What to do when an id already exists"), mcp.Enum("error", "replace", "skip")),
)
