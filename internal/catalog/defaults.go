package catalog

// ModeSubject is the mode used for one-line fields such as email subjects,
// where an unsubscribe link makes no sense.
const ModeSubject = "subject"

// Default returns the built-in catalog.
func Default() *Catalog {
	return MustNew([]Descriptor{
		{Name: "first_name", Description: "Recipient first name"},
		{Name: "last_name", Description: "Recipient last name"},
		{Name: "full_name", Description: "Recipient full name"},
		{Name: "email", Description: "Recipient email address"},
		{Name: "company", Description: "Recipient company"},
		{Name: "sender_name", Description: "Name of the sending user"},
		{Name: "campaign_name", Description: "Name of the campaign"},
		{Name: "unsubscribe_link", Description: "Link that removes the recipient from the list"},
	}, map[string][]string{
		ModeSubject: {"unsubscribe_link"},
	})
}
