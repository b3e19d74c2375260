package config

// defaultFallbackSets are the built-in degraded-mode replies. The unavailable
// texts carry a scripture quotation so even a dead generation service answers
// with something pastoral.
var defaultFallbackSets = map[string]FallbackSet{
	"english": {
		Delayed:     "I'm sorry, the response is taking longer than expected. Please try again in a moment.",
		Rephrase:    "I'm sorry, I could not find the right words for that. Could you rephrase your question?",
		Unavailable: "I apologize, but I'm having trouble accessing the AI service right now. Please try again in a moment. Remember, 'The Lord is near to all who call on him, to all who call on him in truth.' - Psalm 145:18",
	},
	"hindi": {
		Delayed:     "क्षमा करें, उत्तर आने में अपेक्षा से अधिक समय लग रहा है। कृपया थोड़ी देर बाद पुनः प्रयास करें।",
		Rephrase:    "क्षमा करें, मैं आपके प्रश्न का उत्तर नहीं बना सका। कृपया उसे दूसरे शब्दों में पूछें।",
		Unavailable: "क्षमा करें, इस समय सेवा उपलब्ध नहीं है। कृपया थोड़ी देर बाद पुनः प्रयास करें। स्मरण रखें, 'यहोवा उन सभों के निकट है जो उसे पुकारते हैं, जो सच्चाई से उसे पुकारते हैं।' - भजन संहिता 145:18",
	},
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/shepherd/data/chat.db"
	}
	if cfg.Corpus.Dir == "" {
		cfg.Corpus.Dir = "/usr/local/var/shepherd/data/corpus"
	}
	if len(cfg.Corpus.Languages) == 0 {
		cfg.Corpus.Languages = []string{"english", "hindi"}
	}
	if cfg.Corpus.DefaultLanguage == "" {
		cfg.Corpus.DefaultLanguage = "english"
	}
	if cfg.Embedding.Type == "" {
		cfg.Embedding.Type = "onnx"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/shepherd/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.Workers == 0 {
		cfg.Embedding.Workers = 4
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Retrieval.MaxDistance == 0 {
		cfg.Retrieval.MaxDistance = 10.0
	}
	if cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = 10
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "gpt-4o-mini"
	}
	if cfg.Generation.TimeoutSeconds == 0 {
		cfg.Generation.TimeoutSeconds = 30
	}
	if cfg.Generation.Temperature == 0 {
		cfg.Generation.Temperature = 0.7
	}
	if cfg.Generation.MinResponseChars == 0 {
		cfg.Generation.MinResponseChars = 10
	}
	applyFallbackDefaults(cfg)
}

// applyFallbackDefaults guarantees a complete reply set for every configured
// language entry and a mandatory entry for the default language. Empty fields
// in user-provided sets are filled from the built-ins so the map is never
// partial.
func applyFallbackDefaults(cfg *Config) {
	if cfg.Fallbacks == nil {
		cfg.Fallbacks = make(map[string]FallbackSet, len(defaultFallbackSets))
		for lang, fb := range defaultFallbackSets {
			cfg.Fallbacks[lang] = fb
		}
		return
	}

	for lang, fb := range cfg.Fallbacks {
		base, ok := defaultFallbackSets[lang]
		if !ok {
			base = defaultFallbackSets["english"]
		}
		if fb.Delayed == "" {
			fb.Delayed = base.Delayed
		}
		if fb.Rephrase == "" {
			fb.Rephrase = base.Rephrase
		}
		if fb.Unavailable == "" {
			fb.Unavailable = base.Unavailable
		}
		cfg.Fallbacks[lang] = fb
	}

	if _, ok := cfg.Fallbacks[cfg.Corpus.DefaultLanguage]; !ok {
		base, found := defaultFallbackSets[cfg.Corpus.DefaultLanguage]
		if !found {
			base = defaultFallbackSets["english"]
		}
		cfg.Fallbacks[cfg.Corpus.DefaultLanguage] = base
	}
}
