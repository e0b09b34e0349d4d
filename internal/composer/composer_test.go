package composer

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func newTestComposer(seed int64) *Composer {
	return New(rand.New(rand.NewSource(seed)))
}

func TestDetectTopic(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "Market volatility",
			text:     "Bitcoin is about to crash hard",
			expected: TopicMarketVolatility,
		},
		{
			name:     "Airdrop",
			text:     "New airdrop eligible wallets announced",
			expected: TopicAirdrops,
		},
		{
			name:     "Staking",
			text:     "Best validator to stake with this year",
			expected: TopicStaking,
		},
		{
			name:     "NFT",
			text:     "This NFT collection is minting tomorrow",
			expected: TopicNFT,
		},
		{
			name:     "DeFi",
			text:     "Providing liquidity to the new swap protocol",
			expected: TopicDefi,
		},
		{
			name:     "Regulation",
			text:     "The SEC filed another lawsuit today",
			expected: TopicRegulation,
		},
		{
			name:     "Case insensitive",
			text:     "MASSIVE AIRDROP INCOMING",
			expected: TopicAirdrops,
		},
		{
			name:     "No match",
			text:     "gm everyone, what a wonderful morning",
			expected: TopicGeneral,
		},
		{
			name:     "Empty text",
			text:     "",
			expected: TopicGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectTopic(tt.text))
		})
	}
}

func TestDetectTopic_PriorityOrder(t *testing.T) {
	// Matches both market_volatility ("price") and airdrops ("airdrop");
	// market_volatility is checked first and must win.
	topic := DetectTopic("this airdrop will pump the token price")
	assert.Equal(t, TopicMarketVolatility, topic)

	// Matches staking ("yield") and defi ("liquidity"); staking is earlier.
	topic = DetectTopic("earn yield by providing liquidity")
	assert.Equal(t, TopicStaking, topic)
}

func TestComposer_Compose_UsesPersonaTemplates(t *testing.T) {
	c := newTestComposer(1)

	reply := c.Compose("the market is going to crash", PersonaExpert)

	assert.Contains(t, templates[TopicMarketVolatility][PersonaExpert], reply)
}

func TestComposer_Compose_UnknownPersonaFallsBackToInsider(t *testing.T) {
	c := newTestComposer(1)

	reply := c.Compose("the market is going to crash", "prophet")

	assert.Contains(t, templates[TopicMarketVolatility][PersonaInsider], reply)
}

func TestComposer_Compose_UnpopulatedTopicFallsBackToGeneral(t *testing.T) {
	c := newTestComposer(1)

	// Staking has no template table, so the general table serves it
	reply := c.Compose("staking rewards look great", PersonaFriend)

	assert.Contains(t, templates[TopicGeneral][PersonaFriend], reply)
}

func TestComposer_Compose_RandomPersonaIsDeterministicWithSeed(t *testing.T) {
	first := newTestComposer(42).Compose("gm", PersonaRandom)
	second := newTestComposer(42).Compose("gm", PersonaRandom)

	assert.Equal(t, first, second)
}

func TestComposer_Compose_AlwaysReturnsBoundedText(t *testing.T) {
	c := newTestComposer(7)

	inputs := []string{
		"",
		"random text with no category",
		strings.Repeat("crash dump pump ", 300),
		"airdrop claim eligible snapshot",
	}

	for _, input := range inputs {
		for _, persona := range []string{PersonaInsider, PersonaExpert, PersonaFriend, PersonaRandom, "bogus"} {
			reply := c.Compose(input, persona)
			assert.NotEmpty(t, reply)
			assert.LessOrEqual(t, utf8.RuneCountInString(reply), MaxReplyLength)
		}
	}
}

func TestComposer_Compose_InternalFaultYieldsFallback(t *testing.T) {
	// A nil random source stands in for any fault inside composition: the
	// panic must be swallowed and the neutral fallback returned.
	c := New(nil)

	reply := c.Compose("the market is going to crash", PersonaRandom)

	assert.Equal(t, FallbackReply, reply)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "ASCII overflow", input: strings.Repeat("a", 300)},
		{name: "Multibyte overflow", input: strings.Repeat("é", 300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Truncate(tt.input)
			assert.Equal(t, MaxReplyLength, utf8.RuneCountInString(out))
			assert.True(t, strings.HasSuffix(out, "..."))
		})
	}

	short := "short reply"
	assert.Equal(t, short, Truncate(short))

	exact := strings.Repeat("x", MaxReplyLength)
	assert.Equal(t, exact, Truncate(exact))
}
