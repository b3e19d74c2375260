// Package e2e provides end-to-end tests that run the full guidance pipeline
// over a generated bilingual verse corpus.
package e2e

import (
	"fmt"

	"github.com/hyperjump/shepherd/internal/corpus"
	"github.com/hyperjump/shepherd/internal/language"
)

// RetrievalCase defines a query and the verse reference that must rank first.
// Queries are exact verse texts: the mock embedder maps identical text to
// identical vectors, so the matching verse sits at distance zero and must
// come back on top regardless of how the remaining corpus scores.
type RetrievalCase struct {
	Query         string
	Language      string
	WantReference string
	Description   string
}

// GuidanceCorpus holds per-language verse collections and the retrieval test
// cases derived from them.
type GuidanceCorpus struct {
	Collections map[string][]corpus.VerseRecord
	Cases       []RetrievalCase
	TotalVerses int
	TotalCases  int
}

// BuildGuidanceCorpus returns a bilingual corpus with one retrieval test case
// per verse. Every verse text is unique within its language so each case has
// exactly one correct answer.
func BuildGuidanceCorpus() *GuidanceCorpus {
	collections := map[string][]corpus.VerseRecord{
		language.English: buildEnglishVerses(),
		language.Hindi:   buildHindiVerses(),
	}
	cases := buildRetrievalCases(collections)
	total := 0
	for _, records := range collections {
		total += len(records)
	}
	return &GuidanceCorpus{
		Collections: collections,
		Cases:       cases,
		TotalVerses: total,
		TotalCases:  len(cases),
	}
}

func buildEnglishVerses() []corpus.VerseRecord {
	passages := []struct {
		book    string
		chapter int
		verse   string
		text    string
	}{
		{"Psalm", 46, "1", "God is our refuge and strength, an ever-present help in trouble."},
		{"Psalm", 46, "10", "Be still, and know that I am God; I will be exalted among the nations, I will be exalted in the earth."},
		{"Psalm", 27, "1", "The Lord is my light and my salvation; whom shall I fear? The Lord is the stronghold of my life; of whom shall I be afraid?"},
		{"Psalm", 37, "4", "Take delight in the Lord, and he will give you the desires of your heart."},
		{"Psalm", 55, "22", "Cast your cares on the Lord and he will sustain you; he will never let the righteous be shaken."},
		{"Psalm", 119, "105", "Your word is a lamp for my feet, a light on my path."},
		{"Psalm", 121, "1-2", "I lift up my eyes to the mountains. Where does my help come from? My help comes from the Lord, the Maker of heaven and earth."},
		{"Psalm", 147, "3", "He heals the brokenhearted and binds up their wounds."},
		{"Proverbs", 16, "9", "In their hearts humans plan their course, but the Lord establishes their steps."},
		{"Proverbs", 17, "22", "A cheerful heart is good medicine, but a crushed spirit dries up the bones."},
		{"Proverbs", 18, "10", "The name of the Lord is a fortified tower; the righteous run to it and are safe."},
		{"Isaiah", 40, "31", "But those who hope in the Lord will renew their strength. They will soar on wings like eagles; they will run and not grow weary, they will walk and not be faint."},
		{"Isaiah", 26, "3", "You will keep in perfect peace those whose minds are steadfast, because they trust in you."},
		{"Isaiah", 43, "2", "When you pass through the waters, I will be with you; and when you pass through the rivers, they will not sweep over you."},
		{"Lamentations", 3, "22-23", "Because of the Lord's great love we are not consumed, for his compassions never fail. They are new every morning; great is your faithfulness."},
		{"Matthew", 5, "4", "Blessed are those who mourn, for they will be comforted."},
		{"Matthew", 6, "33", "But seek first his kingdom and his righteousness, and all these things will be given to you as well."},
		{"Matthew", 6, "34", "Therefore do not worry about tomorrow, for tomorrow will worry about itself. Each day has enough trouble of its own."},
		{"Matthew", 7, "7", "Ask and it will be given to you; seek and you will find; knock and the door will be opened to you."},
		{"Mark", 10, "27", "With man this is impossible, but not with God; all things are possible with God."},
		{"Luke", 12, "25", "Who of you by worrying can add a single hour to your life?"},
		{"John", 3, "16", "For God so loved the world that he gave his one and only Son, that whoever believes in him shall not perish but have eternal life."},
		{"John", 8, "12", "I am the light of the world. Whoever follows me will never walk in darkness, but will have the light of life."},
		{"John", 16, "33", "In this world you will have trouble. But take heart! I have overcome the world."},
		{"Romans", 12, "12", "Be joyful in hope, patient in affliction, faithful in prayer."},
		{"Romans", 15, "13", "May the God of hope fill you with all joy and peace as you trust in him, so that you may overflow with hope by the power of the Holy Spirit."},
		{"1 Corinthians", 10, "13", "No temptation has overtaken you except what is common to mankind. And God is faithful; he will not let you be tempted beyond what you can bear."},
		{"1 Corinthians", 13, "4", "Love is patient, love is kind. It does not envy, it does not boast, it is not proud."},
		{"2 Corinthians", 5, "7", "For we live by faith, not by sight."},
		{"Galatians", 6, "9", "Let us not become weary in doing good, for at the proper time we will reap a harvest if we do not give up."},
		{"Ephesians", 2, "8", "For it is by grace you have been saved, through faith, and this is not from yourselves, it is the gift of God."},
		{"Philippians", 4, "13", "I can do all this through him who gives me strength."},
		{"Colossians", 3, "23", "Whatever you do, work at it with all your heart, as working for the Lord, not for human masters."},
		{"2 Timothy", 1, "7", "For the Spirit God gave us does not make us timid, but gives us power, love and self-discipline."},
		{"Hebrews", 11, "1", "Now faith is confidence in what we hope for and assurance about what we do not see."},
		{"James", 1, "5", "If any of you lacks wisdom, you should ask God, who gives generously to all without finding fault, and it will be given to you."},
	}

	out := make([]corpus.VerseRecord, 0, len(passages))
	for _, p := range passages {
		out = append(out, corpus.VerseRecord{
			Book:     p.book,
			Chapter:  p.chapter,
			Verse:    p.verse,
			Text:     p.text,
			Language: language.English,
		})
	}
	return out
}

func buildHindiVerses() []corpus.VerseRecord {
	passages := []struct {
		book    string
		chapter int
		verse   string
		text    string
	}{
		{"भजन संहिता", 46, "1", "परमेश्वर हमारा शरणस्थान और बल है, संकट में अति सहज से मिलने वाला सहायक।"},
		{"भजन संहिता", 46, "10", "चुप हो जाओ, और जान लो कि मैं ही परमेश्वर हूँ।"},
		{"भजन संहिता", 27, "1", "यहोवा मेरी ज्योति और मेरा उद्धार है; मैं किस से डरूँ?"},
		{"यशायाह", 40, "31", "परन्तु जो यहोवा की बाट जोहते हैं, वे नया बल प्राप्त करते जाएँगे, वे उकाबों के समान उड़ेंगे।"},
		{"मत्ती", 6, "33", "इसलिये पहले तुम परमेश्वर के राज्य और धर्म की खोज करो, तो ये सब वस्तुएँ भी तुम्हें मिल जाएँगी।"},
		{"मत्ती", 6, "34", "इसलिये कल के विषय में चिन्ता न करो, क्योंकि कल का दिन अपनी चिन्ता आप कर लेगा।"},
		{"मत्ती", 7, "7", "माँगो, तो तुम्हें दिया जाएगा; ढूँढ़ो, तो तुम पाओगे; खटखटाओ, तो तुम्हारे लिये खोला जाएगा।"},
		{"यूहन्ना", 16, "33", "संसार में तुम्हें क्लेश होता है, परन्तु ढाढ़स बाँधो, मैं ने संसार को जीत लिया है।"},
		{"रोमियों", 12, "12", "आशा में आनन्दित रहो; क्लेश में स्थिर रहो; प्रार्थना में नित्य लगे रहो।"},
		{"फिलिप्पियों", 4, "13", "जो मुझे सामर्थ्य देता है उसमें मैं सब कुछ कर सकता हूँ।"},
		{"इब्रानियों", 11, "1", "अब विश्वास आशा की हुई वस्तुओं का निश्चय, और अनदेखी वस्तुओं का प्रमाण है।"},
		{"याकूब", 1, "5", "यदि तुम में से किसी को बुद्धि की घटी हो, तो परमेश्वर से माँगे, जो बिना उलाहना दिए सब को उदारता से देता है; और उसको दी जाएगी।"},
	}

	out := make([]corpus.VerseRecord, 0, len(passages))
	for _, p := range passages {
		out = append(out, corpus.VerseRecord{
			Book:     p.book,
			Chapter:  p.chapter,
			Verse:    p.verse,
			Text:     p.text,
			Language: language.Hindi,
		})
	}
	return out
}

func buildRetrievalCases(collections map[string][]corpus.VerseRecord) []RetrievalCase {
	var cases []RetrievalCase
	for _, lang := range []string{language.English, language.Hindi} {
		for i := range collections[lang] {
			r := &collections[lang][i]
			cases = append(cases, RetrievalCase{
				Query:         r.Text,
				Language:      lang,
				WantReference: r.Reference(),
				Description:   fmt.Sprintf("%s/%s", lang, r.Reference()),
			})
		}
	}
	return cases
}
