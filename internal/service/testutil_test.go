package service

import (
	"os"
	"path/filepath"
	"testing"

	"sabdakrida_backend/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.PhonemeError{},
		&model.PronunciationScore{},
		&model.LearnerProfileRecord{},
		&model.TutorProgressRecord{},
	))
	return db
}

const testDhatuJSON = `[
  {
    "id": "dhatu-bhu",
    "iast": "bhū",
    "meaning": "to be, to become",
    "derivedForms": [
      {"form": "bhavati", "gloss": "he/she/it becomes", "type": "present 3sg"},
      {"form": "bhavanti", "gloss": "they become", "type": "present 3pl"},
      {"form": "babhūva", "gloss": "he/she/it became", "type": "perfect 3sg"},
      {"form": "bhūta", "gloss": "become, being", "type": "past participle"},
      {"form": "bhāva", "gloss": "state, condition", "type": "noun"}
    ],
    "derivesTo": ["bhūmi", "prabhava"]
  },
  {
    "id": "dhatu-kri",
    "iast": "kṛ",
    "meaning": "to do, to make",
    "derivedForms": [
      {"form": "karoti", "gloss": "he/she/it does"},
      {"form": "kurvanti", "gloss": "they do"},
      {"form": "cakāra", "gloss": "he/she/it did"},
      {"form": "kariṣyati", "gloss": "he/she/it will do"},
      {"form": "kṛta", "gloss": "done, made"},
      {"form": "kartum", "gloss": "to do"}
    ],
    "derivesTo": ["karman"]
  },
  {
    "id": "dhatu-gam",
    "iast": "gam",
    "meaning": "to go",
    "derivedForms": [
      {"form": "gacchati", "gloss": "he/she/it goes"},
      {"form": "gata", "gloss": "gone"}
    ],
    "derivesTo": ["gati"]
  }
]`

func testGrammarService(t *testing.T) *GrammarService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dhatus.json")
	require.NoError(t, os.WriteFile(path, []byte(testDhatuJSON), 0o644))
	g := NewGrammarService(path)
	require.True(t, g.Available())
	return g
}
