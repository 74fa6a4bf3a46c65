package phoneme

// Explanation is the corrective feedback attached to an error category.
// Sanskrit goes to the TTS teacher voice, English to the display.
type Explanation struct {
	Sanskrit string `json:"sanskrit"`
	English  string `json:"english"`
	Tip      string `json:"tip"`
	Tone     string `json:"tone"`
}

var explanations = map[ErrorCategory]Explanation{
	RetroflexDental: {
		Sanskrit: "jihvā mūrdhni na sthitā. uccasthāne spṛśatu.",
		English:  "Tongue not at hard palate. Touch the upper position.",
		Tip:      "Curl tongue back — tip touches the ridge behind the teeth.",
		Tone:     "command",
	},
	Aspiration: {
		Sanskrit: "śvāsaḥ nāsti. vāyu sahitam uccāraya.",
		English:  "No breath. Pronounce with air.",
		Tip:      "Hold hand in front of mouth — aspirated sounds need a puff.",
		Tone:     "command",
	},
	VowelLength: {
		Sanskrit: "dīrgha svaro hrasvaḥ jātaḥ. dviguṇakālaṃ tiṣṭhatu.",
		English:  "Long vowel became short. Hold it twice as long.",
		Tip:      "Count: ā is exactly 2x the duration of a.",
		Tone:     "command",
	},
	PalatalSibilant: {
		Sanskrit: "tālavya śaḥ nāsti. jihvā tāluni sthāpaya.",
		English:  "Palatal sibilant missing. Place tongue at palate.",
		Tip:      "ś is like the 'sh' in 'she' — tongue at roof of mouth.",
		Tone:     "command",
	},
	RetroflexSibilant: {
		Sanskrit: "mūrdhanya ṣaḥ nāsti. jihvā mūrdhni sthāpaya.",
		English:  "Retroflex sibilant missing. Tongue at hard palate.",
		Tip:      "ṣ: tongue curled back to palate, then push air.",
		Tone:     "command",
	},
	SibilantDistinction: {
		Sanskrit: "ś-ṣayor bhedaḥ āvaśyakaḥ.",
		English:  "The ś / ṣ distinction is required.",
		Tip:      "ś = tongue at palate tip. ṣ = tongue curled further back.",
		Tone:     "command",
	},
	Anusvara: {
		Sanskrit: "anunāsikaṃ nāsti. nāsikayā uccāraya.",
		English:  "Nasalisation missing. Produce through nose.",
		Tip:      "ṃ resonates in the nasal cavity — hum it.",
		Tone:     "command",
	},
	Visarga: {
		Sanskrit: "visargaḥ nāsti. avasāne śvāsaḥ āvaśyakaḥ.",
		English:  "Visarga missing. A breath at the end is required.",
		Tip:      "ḥ: after the vowel, exhale briefly at its mouth position.",
		Tone:     "command",
	},
}

// Explain looks up the feedback for an error category.
func Explain(cat ErrorCategory) (Explanation, bool) {
	e, ok := explanations[cat]
	return e, ok
}

// Teacher dialogue bank: pre-written, grammatically checked Sanskrit
// utterances for the TTS voice. Use these rather than generating.
const (
	DialogueCorrect      = "sādhu! śuddha uccāraṇā. etat samyak asti."
	DialogueTryAgain     = "punar vadatu. śuddhataraṃ uccāraya."
	DialogueSessionDone  = "abhyāsaḥ sampūrṇaḥ. sādhu kāryam."
	DialogueKeepGoing    = "punar punar abhyasyatu."
	DialoguePerfectRun   = "atīva sādhu! eṣā śuddha uccāraṇā."
	FeedbackCorrect      = "Well done! Clear pronunciation. That's correct."
	FeedbackGenericRetry = "Repeat once more, articulating each sound clearly."
)
