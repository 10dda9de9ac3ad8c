package alexa

import "fmt"

type ResponseEnvelope struct {
	Version           string            `json:"version"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
	Response          Response          `json:"response"`
}

type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	Directives       []Directive   `json:"directives,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	SSML string `json:"ssml,omitempty"`
}

type Card struct {
	Type  string     `json:"type"`
	Title string     `json:"title,omitempty"`
	Text  string     `json:"text,omitempty"`
	Image *CardImage `json:"image,omitempty"`
}

type CardImage struct {
	LargeImageURL string `json:"largeImageUrl,omitempty"`
}

// Directive carries the APL RenderDocument payload. Document and
// datasources are opaque template structures owned by the display
// renderer.
type Directive struct {
	Type        string         `json:"type"`
	Token       string         `json:"token,omitempty"`
	Document    map[string]any `json:"document,omitempty"`
	Datasources map[string]any `json:"datasources,omitempty"`
}

const aplRenderDocument = "Alexa.Presentation.APL.RenderDocument"

// Ask speaks plain text and keeps the session open.
func Ask(text string, attrs map[string]string) ResponseEnvelope {
	return ResponseEnvelope{
		Version:           "1.0",
		SessionAttributes: attrs,
		Response: Response{
			OutputSpeech:     &OutputSpeech{Type: "PlainText", Text: text},
			ShouldEndSession: false,
		},
	}
}

// AskSSML wraps the text in a speak tag and keeps the session open.
func AskSSML(text string, attrs map[string]string) ResponseEnvelope {
	return ResponseEnvelope{
		Version:           "1.0",
		SessionAttributes: attrs,
		Response: Response{
			OutputSpeech:     &OutputSpeech{Type: "SSML", SSML: fmt.Sprintf("<speak>%s</speak>", text)},
			ShouldEndSession: false,
		},
	}
}

// Tell speaks plain text and ends the session.
func Tell(text string) ResponseEnvelope {
	return ResponseEnvelope{
		Version: "1.0",
		Response: Response{
			OutputSpeech:     &OutputSpeech{Type: "PlainText", Text: text},
			ShouldEndSession: true,
		},
	}
}

// WithCard attaches a Standard card for the companion app.
func (r ResponseEnvelope) WithCard(title, text, imageURL string) ResponseEnvelope {
	card := &Card{Type: "Standard", Title: title, Text: text}
	if imageURL != "" {
		card.Image = &CardImage{LargeImageURL: imageURL}
	}
	r.Response.Card = card
	return r
}

// WithAPL attaches a RenderDocument directive.
func (r ResponseEnvelope) WithAPL(token string, document, datasources map[string]any) ResponseEnvelope {
	r.Response.Directives = append(r.Response.Directives, Directive{
		Type:        aplRenderDocument,
		Token:       token,
		Document:    document,
		Datasources: datasources,
	})
	return r
}
