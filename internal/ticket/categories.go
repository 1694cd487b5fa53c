package ticket

// Category describes one support queue shown in the panel select menu. The
// prefix seeds ticket channel names.
type Category struct {
	ID          string
	Label       string
	Emoji       string
	Description string
	Prefix      string
	Color       int
}

var categories = []Category{
	{
		ID:          "technical",
		Label:       "Technical support",
		Emoji:       "🔧",
		Description: "The app crashes, skins do not apply, installation problems",
		Prefix:      "tech",
		Color:       0x3498DB,
	},
	{
		ID:          "payment",
		Label:       "Payments",
		Emoji:       "💳",
		Description: "Billing, refunds and subscription questions",
		Prefix:      "payment",
		Color:       0x2ECC71,
	},
	{
		ID:          "account",
		Label:       "Account",
		Emoji:       "👤",
		Description: "Verification, login and account recovery",
		Prefix:      "account",
		Color:       0xE67E22,
	},
	{
		ID:          "other",
		Label:       "Other",
		Emoji:       "❓",
		Description: "Anything that does not fit the other queues",
		Prefix:      "support",
		Color:       0x95A5A6,
	},
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func CategoryByID(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
