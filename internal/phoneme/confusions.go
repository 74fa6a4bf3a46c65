package phoneme

// ErrorCategory names a class of Sanskrit pronunciation error.
type ErrorCategory string

const (
	RetroflexDental     ErrorCategory = "retroflex_dental"
	Aspiration          ErrorCategory = "aspiration"
	VowelLength         ErrorCategory = "vowel_length"
	PalatalSibilant     ErrorCategory = "palatal_sibilant"
	RetroflexSibilant   ErrorCategory = "retroflex_sibilant"
	SibilantDistinction ErrorCategory = "sibilant_distinction"
	Anusvara            ErrorCategory = "anusvara"
	Visarga             ErrorCategory = "visarga"
)

type confusionKey struct {
	Expected string
	Heard    string
}

// confusions is the core knowledge base for pronunciation diagnosis.
// When the ASR transcribes ṭīkā as tīkā, that IS the pronunciation
// error. The table is directional: (expected, heard). Both directions
// of a pair must be listed explicitly when both matter.
var confusions = map[confusionKey]ErrorCategory{
	// retroflex vs dental, the most common errors for Western learners
	{"ṭ", "t"}:   RetroflexDental,
	{"ḍ", "d"}:   RetroflexDental,
	{"ṇ", "n"}:   RetroflexDental,
	{"ṭh", "th"}: RetroflexDental,
	{"ḍh", "dh"}: RetroflexDental,

	// missing puff of air
	{"th", "t"}: Aspiration,
	{"kh", "k"}: Aspiration,
	{"ph", "p"}: Aspiration,
	{"bh", "b"}: Aspiration,
	{"gh", "g"}: Aspiration,
	{"ch", "c"}: Aspiration,

	// duration errors, ā is twice as long as a
	{"ā", "a"}: VowelLength,
	{"ī", "i"}: VowelLength,
	{"ū", "u"}: VowelLength,

	// three kinds of 's'
	{"ś", "s"}: PalatalSibilant,
	{"ṣ", "s"}: RetroflexSibilant,
	{"ṣ", "ś"}: SibilantDistinction,

	{"ṃ", "m"}: Anusvara,
	{"ḥ", "h"}: Visarga,
}

// Classify maps an (expected, heard) pair to its error category. The
// second return is false for pairs not in the table; callers treat
// those as unclassified residual errors, not failures.
func Classify(expected, heard string) (ErrorCategory, bool) {
	cat, ok := confusions[confusionKey{Expected: expected, Heard: heard}]
	return cat, ok
}
