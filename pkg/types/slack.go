package types

// SlackMessage is the payload for both incoming webhooks and chat.postMessage
type SlackMessage struct {
	Channel     string       `json:"channel,omitempty"`
	Text        string       `json:"text,omitempty"`
	Blocks      []SlackBlock `json:"blocks,omitempty"`
	UnfurlLinks bool         `json:"unfurl_links,omitempty"`
}

// SlackBlock is one Block Kit element of a digest
type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Fields   []SlackTextObject `json:"fields,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

// SlackTextObject is text within a block
type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SlackResponse is the chat.postMessage result; only ok/error are checked
type SlackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
