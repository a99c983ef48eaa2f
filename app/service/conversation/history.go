package conversation

import (
	"fmt"
	"strings"

	"proplens/app/service/store"
)

func formatHistory(turns []store.ConversationTurn) string {
	if len(turns) == 0 {
		return "No previous messages"
	}

	var builder strings.Builder

	for _, turn := range turns {
		who := "User"
		if turn.Role == store.RoleAssistant {
			who = "Assistant"
		}
		builder.WriteString(fmt.Sprintf("%s - %s: %s\n", formatTime(turn.At), who, turn.Text))
	}

	return builder.String()
}
