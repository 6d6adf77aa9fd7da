package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `cadence tracks recurring actions (habits) and periodic signals.

Core concepts:
- Action: a habit with a frequency type (daily, weekly, monthly, once). Daily actions may be limited to weekdays via frequency_days (0=Monday ... 6=Sunday).
- Period key: the bucket a date falls into. One completion counts per period.
- Due state: completed, due or not_due for an action on a date.
- Signal: a value measured on its own cadence (daily, 2-3_weekly, weekly), independent of actions.

Typical workflow:
1) get_today to see what is due.
2) complete_action when an action is done; ALREADY_COMPLETED means the period is already counted.
3) undo_completion to reopen a period completed by mistake.
4) signals_due, then record_measurement for each signal measured.

Dates are YYYY-MM-DD in the server's configured time zone and default to today.

Docs:
- cadence://docs/index
- cadence://docs/period-keys
- cadence://docs/due-states
- cadence://docs/signals
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "cadence://docs/index",
		Name:        "docs_index",
		Title:       "cadence docs index",
		Description: "Entry point: what the server tracks and which doc to read.",
		Content: `# cadence: Docs Index

## Quick start

1. ` + "`create_action`" + ` to add a habit.
2. ` + "`get_today`" + ` for the due state of every non-archived action.
3. ` + "`complete_action`" + ` / ` + "`undo_completion`" + ` to mark or reopen a period.
4. ` + "`signals_due`" + ` and ` + "`record_measurement`" + ` for measured values.
5. ` + "`get_recent_activity`" + ` to review what changed.

## Docs

- ` + "`cadence://docs/period-keys`" + `: how dates map to periods.
- ` + "`cadence://docs/due-states`" + `: how completed, due and not_due are decided.
- ` + "`cadence://docs/signals`" + `: when a signal should be measured.

## Limitations

- Only a frequency interval of 1 is supported.
- Missed periods are not carried forward; each period stands alone.
`,
	},
	{
		URI:         "cadence://docs/period-keys",
		Name:        "period_keys",
		Title:       "Period keys",
		Description: "Period key formats for each frequency type.",
		Content: `# Period keys

A period key names the bucket a local date falls into. Two dates share a key exactly when they fall in the same period.

| frequency | key | example for 2024-03-05 |
|-----------|-----|------------------------|
| daily     | the date | 2024-03-05 |
| weekly    | W_ + Monday on or before the date | W_2024-03-04 |
| monthly   | M_ + year and month | M_2024-03 |
| once      | the constant ONCE | ONCE |

Unrecognized frequency types use the daily scheme. Weeks start on Monday.
Use ` + "`period_key`" + ` to compute a key without touching stored data.
`,
	},
	{
		URI:         "cadence://docs/due-states",
		Name:        "due_states",
		Title:       "Due states",
		Description: "Rules that classify an action on a date.",
		Content: `# Due states

Rules are applied in order:

1. completed: a completion exists for the period key of the date.
2. not_due: the action is inactive, paused or archived.
3. not_due: the action is daily, has frequency_days, and the date's weekday is not listed.
4. due: everything else.

frequency_days only restricts daily actions. A weekly or monthly action is due on every day of its period until completed.
A once action has a single lifetime period; after one completion it stays completed.

Completing an action whose period is already completed fails with ` + "`ALREADY_COMPLETED`" + `. Completing on a day the weekday filter excludes is allowed.
`,
	},
	{
		URI:         "cadence://docs/signals",
		Name:        "signals",
		Title:       "Signals",
		Description: "When a signal should be measured.",
		Content: `# Signals

A signal is measured on its own cadence and never affects action due states.

| frequency  | measure when |
|------------|--------------|
| daily      | every day |
| 2-3_weekly | never measured, or 2+ days since last measurement |
| weekly     | never measured, or 7+ days since last measurement |

Days are counted between local calendar dates. Past dates are never prompted, and unknown frequencies are never due.
` + "`record_measurement`" + ` stamps the signal's last measurement time; an older measurement never moves it backwards.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
