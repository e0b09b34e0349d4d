package composer

// Topic categories, checked in this exact order. The ordering is a
// deliberate tie-break: a tweet matching several categories always resolves
// to the first one in this list.
const (
	TopicMarketVolatility = "market_volatility"
	TopicAirdrops         = "airdrops"
	TopicStaking          = "staking"
	TopicNFT              = "nft"
	TopicDefi             = "defi"
	TopicRegulation       = "regulation"
	TopicGeneral          = "general"
)

// Reply personas
const (
	PersonaInsider = "insider"
	PersonaExpert  = "expert"
	PersonaFriend  = "friend"

	// PersonaRandom is the sentinel that picks a persona per reply.
	PersonaRandom = "random"
)

// topicOrder fixes the detection priority.
var topicOrder = []string{
	TopicMarketVolatility,
	TopicAirdrops,
	TopicStaking,
	TopicNFT,
	TopicDefi,
	TopicRegulation,
}

var topicKeywords = map[string][]string{
	TopicMarketVolatility: {"crash", "dip", "bear", "bull", "dump", "pump", "market", "price", "down", "up", "sell", "buy"},
	TopicAirdrops:         {"airdrop", "free", "claim", "distribution", "eligible", "snapshot"},
	TopicStaking:          {"stake", "staking", "yield", "apy", "validator", "rewards", "passive"},
	TopicNFT:              {"nft", "collection", "mint", "floor", "opensea", "art"},
	TopicDefi:             {"defi", "yield", "farm", "liquidity", "pool", "swap", "lend", "borrow"},
	TopicRegulation:       {"sec", "regulation", "compliance", "legal", "government", "ban"},
}

var personas = []string{PersonaInsider, PersonaExpert, PersonaFriend}

// templates maps topic -> persona -> pre-authored reply variants. Topics
// without entries fall back to the general table for the same persona.
var templates = map[string]map[string][]string{
	TopicMarketVolatility: {
		PersonaInsider: {
			"Market moves like this separate signal from noise. Smart money positioned weeks ago.",
			"Not every dip deserves attention. This one might. The patterns are familiar to those who've seen cycles.",
			"Price action is just surface noise. The real story is in the quiet accumulation happening now.",
		},
		PersonaExpert: {
			"These market swings feel dramatic until you've seen a few cycles. Focus on fundamentals not emotions.",
			"Market psychology at work. Fear and greed playing out exactly as expected. Stay rational.",
			"Short-term volatility, long-term opportunity. The patient ones always win these games.",
		},
		PersonaFriend: {
			"Wild ride right? Remember when everyone panicked last time and missed the recovery? History rhymes.",
			"Market's just doing its thing. Deep breaths and zoom out on the chart. This too shall pass.",
			"Crypto being crypto! Perfect time to remember why you got in this space to begin with.",
		},
	},
	TopicAirdrops: {
		PersonaInsider: {
			"The airdrop game changed months ago. The valuable ones aren't announced loudly.",
			"Real value rarely comes from what everyone's chasing. The signal is elsewhere.",
			"Interesting timing on this distribution. Watch what happens next week.",
		},
		PersonaExpert: {
			"Airdrops are marketing, not gifts. Always ask what you're giving up in return.",
			"The best airdrops come to those building value, not those hunting for free money.",
			"Quality projects don't need to give tokens away. Worth considering why this one does.",
		},
		PersonaFriend: {
			"Free tokens are fun but don't forget to check the project fundamentals too!",
			"Airdrops are like crypto lottery tickets. Enjoy the game but don't build your strategy on them.",
			"Got my popcorn ready for this airdrop season! Just remember most tokens go to zero.",
		},
	},
	TopicGeneral: {
		PersonaInsider: {
			"The narrative shifts but the fundamentals remain. Those who know are quietly building.",
			"Interesting perspective. Though the real alpha is rarely discussed publicly.",
			"Some see volatility. Others see opportunity. The difference is experience.",
		},
		PersonaExpert: {
			"Worth considering both sides. The market rewards those who think independently.",
			"The crypto space evolves fast. Adapting your strategy is key to staying ahead.",
			"Focus on signal not noise. The best opportunities aren't the ones everyone's talking about.",
		},
		PersonaFriend: {
			"Love the energy in crypto right now! So many possibilities if you know where to look.",
			"Crypto keeps it interesting! Never a dull moment when you're building the future.",
			"This space moves so fast! Exciting to see where we'll be this time next year.",
		},
	},
}
