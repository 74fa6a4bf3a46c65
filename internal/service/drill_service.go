package service

import (
	"sabdakrida_backend/internal/model"
	"sabdakrida_backend/internal/phoneme"
	"sabdakrida_backend/internal/repository"
)

// DrillWords is the curated bank: words containing the phoneme
// distinctions each error category trains.
var DrillWords = map[phoneme.ErrorCategory][]string{
	phoneme.RetroflexDental:     {"ṭīkā", "ḍambara", "naṭa", "nāṭya", "ṭhakura", "viṣṇu"},
	phoneme.VowelLength:         {"kāla", "nīla", "pūja", "āgama", "māla", "sīmā"},
	phoneme.Aspiration:          {"phala", "bhāva", "khaga", "ghara", "dharma", "thala"},
	phoneme.PalatalSibilant:     {"śānti", "śabda", "viśva", "āśā", "puruṣa", "śiva"},
	phoneme.RetroflexSibilant:   {"ṣaṭ", "ṣaḍja", "puruṣa", "viṣṇu", "niṣṭhā"},
	phoneme.SibilantDistinction: {"śiva", "ṣaṣṭha", "śānta"},
	phoneme.Anusvara:            {"saṃskṛta", "śaṃkara", "aṃga", "kaṃsa"},
	phoneme.Visarga:             {"namaḥ", "śāntiḥ", "puruṣaḥ", "devāḥ"},
}

// MinimalPair contrasts two words differing in exactly one phoneme.
type MinimalPair struct {
	A    string `json:"a"`
	B    string `json:"b"`
	Note string `json:"note"`
}

var MinimalPairs = []MinimalPair{
	{"nata", "naṭa", "actor vs dancer — dental vs retroflex"},
	{"kala", "kāla", "art vs time — short vs long vowel"},
	{"śiva", "siva", "Shiva vs auspicious — palatal vs dental sibilant"},
	{"phala", "pala", "fruit vs rock — aspirated vs unaspirated"},
	{"dana", "dhana", "gift vs wealth — aspirated vs unaspirated"},
}

// DrillSetSize is how many of the worst categories a drill set covers.
const DrillSetSize = 3

// DrillItem is one category's slice of the drill set.
type DrillItem struct {
	ErrorType phoneme.ErrorCategory `json:"errorType"`
	Count     int                   `json:"count"`
	Words     []string              `json:"words"`
}

// DrillService is the drill-priority tracker: it counts observed error
// categories per user and turns the worst ones into drill word sets.
type DrillService struct {
	errRepo *repository.PhonemeErrorRepository
}

func NewDrillService(errRepo *repository.PhonemeErrorRepository) *DrillService {
	return &DrillService{errRepo: errRepo}
}

// RecordErrors bumps the per-user counters for each observed category.
// Duplicate categories in one attempt count individually.
func (s *DrillService) RecordErrors(userID uint, cats []phoneme.ErrorCategory) error {
	for _, c := range cats {
		if err := s.errRepo.Record(userID, string(c)); err != nil {
			return err
		}
	}
	return nil
}

// Priority returns the user's error categories, most frequent first.
func (s *DrillService) Priority(userID uint) ([]model.PhonemeError, error) {
	return s.errRepo.All(userID)
}

// DrillSet picks the user's top categories and joins them to the word
// bank. A user with no recorded errors gets an empty set.
func (s *DrillService) DrillSet(userID uint) ([]DrillItem, error) {
	top, err := s.errRepo.TopCategories(userID, DrillSetSize)
	if err != nil {
		return nil, err
	}
	var items []DrillItem
	for _, row := range top {
		words := DrillWords[phoneme.ErrorCategory(row.ErrorType)]
		if len(words) == 0 {
			continue
		}
		items = append(items, DrillItem{
			ErrorType: phoneme.ErrorCategory(row.ErrorType),
			Count:     row.Count,
			Words:     words,
		})
	}
	return items, nil
}
