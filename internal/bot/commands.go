package bot

// Command is one entry of the bot's command menu.
type Command struct {
	Name        string
	Description string
	Usage       string
}

// Commands lists the menu registered with the chat platform, in order.
var Commands = []Command{
	{Name: "start", Description: "See the welcome message"},
	{Name: "add", Description: "Add a new expense", Usage: "Usage: /add <amount> <category>"},
	{Name: "income", Description: "Add a new income", Usage: "Usage: /income <amount>"},
	{Name: "move", Description: "Move money between categories", Usage: "Usage: /move <amount> <from> <to>"},
	{Name: "overview", Description: "Get a monthly overview"},
	{Name: "categories", Description: "See all available categories"},
}

const helpText = "Welcome to the Expense Tracker Bot!\n\n" +
	"Use /add <amount> <category> to add an expense.\n" +
	"Use /income <amount> to add income to 'Ready to Assign'.\n" +
	"Use /move <amount> <from_category> <to_category> to move money between categories.\n" +
	"Use /overview to see a monthly summary.\n" +
	"Use /categories to see all available categories."

func usage(name string) string {
	for _, c := range Commands {
		if c.Name == name {
			return c.Usage
		}
	}
	return helpText
}
