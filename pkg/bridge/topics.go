package bridge

import "strings"

// Topics builds the topics of one controller, relative to the queue prefix.
type Topics struct {
	Root string
}

// NewTopics creates Topics rooted at maestro/<id>/.
func NewTopics(id string) Topics {
	return Topics{Root: "maestro/" + id + "/"}
}

// Meta is the retained metadata topic.
func (t Topics) Meta() string {
	return t.Root + "meta"
}

// Reply receives the result of each command.
func (t Topics) Reply() string {
	return t.Root + "reply"
}

// Status receives periodic status reports.
func (t Topics) Status() string {
	return t.Root + "status"
}

// Commands is the filter matching all command topics.
func (t Topics) Commands() string {
	return t.Root + "cmd/#"
}

// Command builds the topic of a command path.
func (t Topics) Command(path string) string {
	return t.Root + "cmd/" + path
}

// CommandPath extracts the command path from a command topic.
func (t Topics) CommandPath(topic string) (string, bool) {
	prefix := t.Root + "cmd/"
	if !strings.HasPrefix(topic, prefix) || len(topic) == len(prefix) {
		return "", false
	}
	return topic[len(prefix):], true
}
