package loop

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary is the tunable word-pattern set the analyzer matches against.
// Cues are lowercase phrases matched as contiguous token sequences; stop
// words are dropped when building sentence signatures. The defaults suit
// English narrative prose; callers can replace any section wholesale or
// load overrides from a YAML file.
type Vocabulary struct {
	DecisionCues []string `yaml:"decision_cues"`
	BeliefCues   []string `yaml:"belief_cues"`
	NegationCues []string `yaml:"negation_cues"`
	StopWords    []string `yaml:"stop_words"`
}

// DefaultVocabulary returns the built-in pattern set.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		DecisionCues: []string{
			"decided",
			"decides",
			"chose",
			"chooses",
			"resolved to",
			"resolves to",
			"made up his mind",
			"made up her mind",
			"made up their mind",
			"settled on",
			"swore to",
			"vowed to",
			"determined to",
		},
		BeliefCues: []string{
			"believed",
			"believes",
			"was convinced",
			"were convinced",
			"is convinced",
			"felt certain",
			"feels certain",
			"felt sure",
			"was sure",
			"knew in his heart",
			"knew in her heart",
			"trusted that",
			"had faith",
		},
		NegationCues: []string{
			"no longer",
			"instead",
			"changed his mind",
			"changed her mind",
			"changed their mind",
			"gave up on",
			"abandoned",
			"reversed",
			"thought better of",
			"doubted",
			"not anymore",
		},
		StopWords: []string{
			// Articles, pronouns, auxiliaries.
			"a", "an", "the",
			"he", "she", "they", "i", "we", "you", "it",
			"his", "her", "their", "my", "our", "your", "its",
			"him", "them", "me", "us",
			"is", "are", "was", "were", "be", "been", "am",
			"has", "have", "had", "do", "does", "did",
			"will", "would", "could", "should", "shall", "may", "might",
			// Connectives and prepositions.
			"and", "but", "or", "so", "that", "this", "these", "those",
			"to", "of", "in", "on", "at", "by", "for", "with", "from", "into",
			// Discourse and temporal fillers that vary between restatements
			// of the same decision or belief.
			"then", "later", "again", "once", "still", "just", "now",
			"finally", "eventually", "soon", "really", "very", "there",
		},
	}
}

// LoadVocabulary reads a YAML vocabulary file. Sections left empty in the
// file keep their default values, so a file can override only the cue
// lists it cares about.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary: %w", err)
	}
	def := DefaultVocabulary()
	if len(v.DecisionCues) == 0 {
		v.DecisionCues = def.DecisionCues
	}
	if len(v.BeliefCues) == 0 {
		v.BeliefCues = def.BeliefCues
	}
	if len(v.NegationCues) == 0 {
		v.NegationCues = def.NegationCues
	}
	if len(v.StopWords) == 0 {
		v.StopWords = def.StopWords
	}
	return v, nil
}

// compiled is the matcher-ready form of a Vocabulary: cue phrases split
// into token sequences and stop words as a set.
type compiled struct {
	decision  [][]string
	belief    [][]string
	negation  [][]string
	stopWords map[string]struct{}
}

func (v Vocabulary) compile() compiled {
	c := compiled{
		decision:  splitPhrases(v.DecisionCues),
		belief:    splitPhrases(v.BeliefCues),
		negation:  splitPhrases(v.NegationCues),
		stopWords: make(map[string]struct{}, len(v.StopWords)),
	}
	for _, w := range v.StopWords {
		c.stopWords[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return c
}

func splitPhrases(phrases []string) [][]string {
	out := make([][]string, 0, len(phrases))
	for _, p := range phrases {
		fields := strings.Fields(strings.ToLower(p))
		if len(fields) > 0 {
			out = append(out, fields)
		}
	}
	return out
}
