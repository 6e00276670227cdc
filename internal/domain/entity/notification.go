package entity

import "errors"

// Severity is the colour bar of a chat notification
type Severity string

const (
	SeverityGood    Severity = "good"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// SlackMessage is the incoming-webhook payload sent for each reservation event
type SlackMessage struct {
	Attachments []SlackAttachment `json:"attachments"`
}

// SlackAttachment carries the formatted reservation fields
type SlackAttachment struct {
	MrkdwnIn []string     `json:"mrkdwn_in,omitempty"`
	Color    Severity     `json:"color"`
	Pretext  string       `json:"pretext"`
	Fields   []SlackField `json:"fields"`
	Ts       int64        `json:"ts"`
}

// SlackField is one title/value cell of an attachment
type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Validate checks that the message has something to render
func (m SlackMessage) Validate() error {
	if len(m.Attachments) == 0 {
		return errors.New("slack message must contain at least one attachment")
	}
	for _, a := range m.Attachments {
		if a.Pretext == "" && len(a.Fields) == 0 {
			return errors.New("slack attachment must have a pretext or fields")
		}
	}
	return nil
}

// Field returns the value of the first field with the given title
func (m SlackMessage) Field(title string) (string, bool) {
	for _, a := range m.Attachments {
		for _, f := range a.Fields {
			if f.Title == title {
				return f.Value, true
			}
		}
	}
	return "", false
}
