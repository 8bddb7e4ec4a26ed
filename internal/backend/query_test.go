package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_Values(t *testing.T) {
	q := From("players").
		Select("id,nickname").
		Eq("id", 7).
		Neq("sender_id", "abc").
		OrderBy("lives", false).
		OrderBy("last_name", true).
		OrderByDesc("created_at").
		Limit(50)

	v := q.Values()
	assert.Equal(t, "id,nickname", v.Get("select"))
	assert.Equal(t, "eq.7", v.Get("id"))
	assert.Equal(t, "neq.abc", v.Get("sender_id"))
	assert.Equal(t, "lives.asc,last_name.asc.nullslast,created_at.desc", v.Get("order"))
	assert.Equal(t, "50", v.Get("limit"))
}

func TestQuery_OrAndIn(t *testing.T) {
	q := From("help_requests").
		Or("target_player_id.eq.5,type.eq.general").
		In("id", []string{"1", "2", "3"})

	v := q.Values()
	assert.Equal(t, "(target_player_id.eq.5,type.eq.general)", v.Get("or"))
	assert.Equal(t, "in.(1,2,3)", v.Get("id"))
}

func TestQuery_ChainingDoesNotMutateBase(t *testing.T) {
	base := From("players").Eq("id", 1)
	a := base.Eq("lives", 0)
	b := base.Eq("lives", 12)

	assert.Len(t, base.Filters, 1)
	assert.Len(t, a.Filters, 2)
	assert.Len(t, b.Filters, 2)
	assert.Equal(t, "0", a.Filters[1].Value)
	assert.Equal(t, "12", b.Filters[1].Value)
}

func TestQuery_DefaultsToAllColumns(t *testing.T) {
	v := From("players").Values()
	assert.Equal(t, "*", v.Get("select"))
	assert.Empty(t, v.Get("limit"))
	assert.Empty(t, v.Get("order"))
}
