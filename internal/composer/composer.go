// Package composer turns a candidate tweet into persona-flavored reply text.
package composer

import (
	"math/rand"
	"strings"

	"github.com/sirupsen/logrus"
)

// MaxReplyLength is the hard upper bound on reply text, in runes.
const MaxReplyLength = 250

// FallbackReply is returned whenever composition cannot produce a template
// reply. Compose never fails past its own boundary.
const FallbackReply = "Interesting perspective on crypto. The market always has more layers than most realize."

// Composer picks reply templates by detected topic and persona. The random
// source is injected so tests can seed it.
type Composer struct {
	rng *rand.Rand
}

// New creates a Composer using the given random source
func New(rng *rand.Rand) *Composer {
	return &Composer{rng: rng}
}

// Compose generates reply text for a tweet. personaID may name a persona,
// or be "random" to pick one per call; unknown personas fall back to the
// insider persona. The result is always a non-empty string of at most
// MaxReplyLength runes: any fault during composition yields FallbackReply
// rather than an error.
func (c *Composer) Compose(tweetText, personaID string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("Reply composition failed, using fallback: %v", r)
			reply = FallbackReply
		}
	}()

	persona := c.resolvePersona(personaID)
	topic := DetectTopic(tweetText)

	reply = c.pickTemplate(persona, topic)
	if reply == "" {
		logrus.Errorf("No reply template for persona %q topic %q, using fallback", persona, topic)
		return FallbackReply
	}

	reply = Truncate(reply)

	logrus.Debugf("Composed reply using %s persona (topic %s): %s", persona, topic, reply)
	return reply
}

func (c *Composer) resolvePersona(personaID string) string {
	if personaID == PersonaRandom {
		return personas[c.rng.Intn(len(personas))]
	}

	for _, p := range personas {
		if p == personaID {
			return p
		}
	}

	return PersonaInsider
}

func (c *Composer) pickTemplate(persona, topic string) string {
	byPersona, ok := templates[topic]
	if !ok {
		byPersona = templates[TopicGeneral]
	}

	variants, ok := byPersona[persona]
	if !ok || len(variants) == 0 {
		variants = templates[TopicGeneral][persona]
	}
	if len(variants) == 0 {
		return ""
	}

	return variants[c.rng.Intn(len(variants))]
}

// DetectTopic classifies tweet text into a topic category. Categories are
// tested in a fixed priority order and the first keyword match wins; text
// matching nothing is classified as general.
func DetectTopic(tweetText string) string {
	text := strings.ToLower(tweetText)

	for _, topic := range topicOrder {
		for _, keyword := range topicKeywords[topic] {
			if strings.Contains(text, keyword) {
				return topic
			}
		}
	}

	return TopicGeneral
}

// Truncate enforces the reply length bound: text longer than MaxReplyLength
// runes is cut to 247 runes plus a three-character ellipsis marker.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxReplyLength {
		return text
	}
	return string(runes[:MaxReplyLength-3]) + "..."
}
