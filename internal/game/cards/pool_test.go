package cards

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePool = `{
  "batch_id": "b-1",
  "cards": [
    {"id": "h1", "type": "hero", "template": "tank", "name": {"en": "", "es": ""}, "stats": {"atk": 2, "def": 11, "hp": 9}, "cost": 4},
    {"id": "i1", "type": "item", "stats": {"atkBonus": 2, "defModifier": -1, "durability": 2}, "cost": 2},
    {"id": "r1", "type": "reactive", "effect": "prevent_death", "stats": {}, "cost": 3},
    {"id": "c1", "type": "counterattack", "stats": {"counterDamage": 1}, "cost": 1},
    {"id": "x1", "type": "healing", "stats": {"healAmount": 2}, "cost": 1}
  ]
}`

func TestDecodePool(t *testing.T) {
	pool, err := Decode(strings.NewReader(samplePool))
	require.NoError(t, err)

	assert.Equal(t, "b-1", pool.BatchID)
	require.Len(t, pool.Cards, 5)
	assert.Equal(t, TypeHero, pool.Cards[0].Type)
	assert.Equal(t, 9, pool.Cards[0].Stats.HP)
	assert.Equal(t, 2, pool.Cards[1].AttackDelta())
	assert.Equal(t, -1, pool.Cards[1].DefenseDelta())
	assert.Equal(t, EffectPreventDeath, pool.Cards[2].Effect)

	counts := pool.CountByType()
	assert.Equal(t, 1, counts[TypeHero])
	assert.Equal(t, 1, counts[TypeHealing])
}

func TestDecodePoolErrors(t *testing.T) {
	cases := map[string]string{
		"not json":           `{"cards": [`,
		"missing cards":      `{"batch_id": "x"}`,
		"missing id":         `{"cards": [{"type": "hero", "cost": 1}]}`,
		"duplicate id":       `{"cards": [{"id": "a", "type": "hero"}, {"id": "a", "type": "item"}]}`,
		"unknown type":       `{"cards": [{"id": "a", "type": "spell"}]}`,
		"negative cost":      `{"cards": [{"id": "a", "type": "hero", "cost": -1}]}`,
		"reactive no effect": `{"cards": [{"id": "a", "type": "reactive", "cost": 1}]}`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedPool), "error %v should wrap ErrMalformedPool", err)
		})
	}
}

func TestLoadPool(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(samplePool), 0o644))

	pool, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, pool.Path)
	assert.Len(t, pool.Cards, 5)

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPool)
}

func TestCardClassification(t *testing.T) {
	assert.True(t, Card{Type: TypeWeapon}.IsEquipment())
	assert.True(t, Card{Type: TypeItem}.IsEquipment())
	assert.False(t, Card{Type: TypeHero}.IsEquipment())

	assert.True(t, Card{Type: TypeHealing}.IsReaction())
	assert.True(t, Card{Type: TypeCounterattack}.IsReaction())
	assert.False(t, Card{Type: TypeWeapon}.IsReaction())
}
