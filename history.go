package sessiongen

// BuildMessages maps every turn of a conversation, whatever its role, to a
// Message carrying the token count of its content.
func BuildMessages(turns []Turn, counter TokenCounter) Messages {
	contents := make([]Message, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, Message{
			Role:    t.Role,
			Content: t.Content,
			Tokens:  counter.CountTokens(t.Content),
		})
	}
	return Messages{Contents: contents}
}

// RoleTokens sums the token counts of the messages with the given role.
func RoleTokens(messages []Message, role string) int {
	total := 0
	for _, msg := range messages {
		if msg.Role == role {
			total += msg.Tokens
		}
	}
	return total
}
