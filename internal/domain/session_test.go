package domain

import (
	"testing"
	"time"
)

func TestGameStateClone_Independent(t *testing.T) {
	gold := 2500
	original := GameState{
		Champion:      "yasuo",
		Enemies:       []EnemyEntry{{Champion: "zed", Status: StatusAhead, IsLaner: true}},
		Gold:          &gold,
		SelfItems:     []string{"shojin"},
		EnemyItems:    map[string][]string{"zed": {"yomuu"}},
		EnemyBuilding: map[string]string{"zed": "gume da noite"},
		LastEnemyItem: &ItemEvent{Champion: "zed", Item: "yomuu", Status: ItemHas},
		Extra:         map[string]any{"client": "ios"},
	}

	clone := original.Clone()

	clone.Enemies[0].Status = StatusBehind
	clone.SelfItems[0] = "estridente"
	clone.EnemyItems["zed"] = append(clone.EnemyItems["zed"], "umbral")
	clone.EnemyBuilding["zed"] = "umbral"
	clone.Extra["client"] = "android"
	*clone.Gold = 100
	clone.LastEnemyItem.Item = "umbral"

	if original.Enemies[0].Status != StatusAhead {
		t.Error("enemy entry shared with clone")
	}
	if original.SelfItems[0] != "shojin" {
		t.Error("self items shared with clone")
	}
	if len(original.EnemyItems["zed"]) != 1 {
		t.Error("enemy item list shared with clone")
	}
	if original.EnemyBuilding["zed"] != "gume da noite" {
		t.Error("enemy building map shared with clone")
	}
	if original.Extra["client"] != "ios" {
		t.Error("extra map shared with clone")
	}
	if *original.Gold != 2500 {
		t.Error("gold pointer shared with clone")
	}
	if original.LastEnemyItem.Item != "yomuu" {
		t.Error("last enemy item shared with clone")
	}
}

func TestGameStateClone_NilFields(t *testing.T) {
	clone := GameState{Champion: "lux"}.Clone()
	if clone.Champion != "lux" {
		t.Errorf("champion = %q", clone.Champion)
	}
	if clone.EnemyItems != nil || clone.Gold != nil || clone.LastEnemyItem != nil {
		t.Errorf("nil fields materialized: %+v", clone)
	}
}

func TestSessionIdle(t *testing.T) {
	now := time.Now()
	sess := &Session{LastSeenAt: now.Add(-2 * time.Hour)}
	if !sess.Idle(time.Hour, now) {
		t.Error("two hours idle not reported past a one hour ttl")
	}
	if sess.Idle(3*time.Hour, now) {
		t.Error("two hours idle reported past a three hour ttl")
	}
}
