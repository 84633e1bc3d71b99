package wordpool

// defaultWords is the bundled fallback bank. Lists may contain the odd
// duplicate; New removes them.
var defaultWords = map[Theme]map[Difficulty][]string{
	ThemeStreet: {
		Beginner: {
			"street", "hood", "flow", "rap", "beat", "grind", "flex", "crew", "squad",
			"real", "true", "raw", "fresh", "dope", "lit", "vibe", "swag", "game",
			"code", "life", "mind", "time", "road", "path", "goal", "move", "chase",
		},
		Intermediate: {
			"hustle", "grinder", "motion", "power", "respect", "rhythm", "struggle",
			"movement", "streets", "project", "culture", "wisdom", "vision", "master",
			"flying", "rising", "walking", "talking", "making", "taking", "building",
			"growing", "knowing", "flowing", "showing", "moving", "proving",
		},
		Advanced: {
			"persevere", "accomplish", "dedicated", "motivated", "elevation",
			"resilient", "ambitious", "visionary", "authentic", "innovative",
			"masterful", "tenacious", "relentless", "influential", "phenomenal",
			"legitimate", "dominating", "calculated", "navigating", "accelerate",
		},
	},
	ThemeLove: {
		Beginner: {
			"heart", "soul", "love", "care", "hope", "dream", "feel", "touch",
			"kiss", "hold", "warm", "soft", "sweet", "dear", "pure", "true",
			"glow", "shine", "light", "joy", "peace", "grace", "faith", "trust",
		},
		Intermediate: {
			"passion", "feeling", "emotion", "healing", "tender", "gentle",
			"caring", "loving", "glowing", "shining", "beauty", "wonder",
			"precious", "perfect", "devoted", "forever", "always", "deeper",
			"closer", "stronger", "sweeter", "warmer", "brighter",
		},
		Advanced: {
			"affection", "devotion", "cherished", "treasured", "enamored",
			"enchanted", "euphoric", "passionate", "embracing", "radiating",
			"resonating", "captivating", "everlasting", "beautiful", "wonderful",
			"miraculous", "harmonious", "delightful", "enchanting",
		},
	},
	ThemeBattle: {
		Beginner: {
			"fight", "win", "beat", "strong", "blast", "clash", "spark", "flame",
			"blaze", "rage", "force", "might", "power", "speed", "strike", "hit",
			"punch", "kick", "slam", "crash", "bang", "boom", "rush", "charge",
		},
		Intermediate: {
			"warrior", "fighter", "battle", "victory", "winning", "crushing",
			"blazing", "raging", "rising", "striking", "charging", "burning",
			"pushing", "pulling", "taking", "making", "breaking", "shaking",
			"moving", "proving", "showing", "growing", "knowing", "flowing",
		},
		Advanced: {
			"destroyer", "dominant", "ferocious", "victorious", "unleashed",
			"ferocious", "merciless", "relentless", "invincible", "unbeatable",
			"unstoppable", "incredible", "formidable", "devastating", "annihilate",
			"obliterate", "demolishing", "conquering", "decimating", "dominating",
		},
	},
	ThemeConscious: {
		Beginner: {
			"truth", "wise", "mind", "think", "learn", "grow", "know", "see",
			"hear", "feel", "real", "pure", "clean", "clear", "free", "peace",
			"love", "light", "hope", "faith", "truth", "path", "way", "road",
		},
		Intermediate: {
			"wisdom", "knowledge", "thought", "learning", "growing", "knowing",
			"seeing", "feeling", "thinking", "rising", "shining", "glowing",
			"flowing", "moving", "proving", "showing", "teaching", "reaching",
			"seeking", "speaking", "healing", "dealing", "reading", "leading",
		},
		Advanced: {
			"conscious", "enlightened", "awakened", "elevated", "liberated",
			"illuminated", "meditative", "innovative", "cognitive", "perceptive",
			"reflective", "introspect", "philosophic", "analytical", "conceptual",
			"theoretical", "metaphysical", "intellectual", "educational",
		},
	},
	ThemeParty: {
		Beginner: {
			"fun", "dance", "move", "groove", "vibe", "flow", "glow", "shine",
			"light", "bright", "loud", "proud", "wild", "free", "jump", "pump",
			"spin", "win", "play", "sway", "rock", "pop", "drop", "top",
		},
		Intermediate: {
			"party", "dancing", "moving", "grooving", "vibing", "flowing",
			"glowing", "shining", "rising", "flying", "riding", "sliding",
			"rolling", "rocking", "popping", "dropping", "jumping", "pumping",
			"spinning", "winning", "playing", "staying", "making", "taking",
		},
		Advanced: {
			"celebrate", "energetic", "explosive", "euphoric", "ecstatic",
			"fantastic", "incredible", "amazing", "phenomenal", "spectacular",
			"magnificent", "sensational", "remarkable", "outstanding", "extraordinary",
			"electrifying", "mesmerizing", "captivating", "fascinating",
		},
	},
}
