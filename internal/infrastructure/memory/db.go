// Package memory implementa los puertos de repositorio en memoria para tests.
// Respeta el mismo Scope que la implementación PostgreSQL; no lo usa cmd/api.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
)

type membership struct {
	familyID string
	joinedAt time.Time
}

// DB estado compartido por todos los repositorios en memoria.
type DB struct {
	mu   sync.RWMutex
	txMu sync.Mutex // serializa TxRunner.Run

	users    map[string]*entity.User
	families map[string]*entity.Family
	members  map[string]membership // por userID: un usuario, a lo sumo una familia
	recipes  map[string]*entity.Recipe
	plans    map[string]*entity.MealPlan
	ratings  map[string]*entity.RecipeRating // por recipeID + "|" + userID
	comments map[string]*entity.MealComment
}

// NewDB crea un almacén vacío.
func NewDB() *DB {
	return &DB{
		users:    make(map[string]*entity.User),
		families: make(map[string]*entity.Family),
		members:  make(map[string]membership),
		recipes:  make(map[string]*entity.Recipe),
		plans:    make(map[string]*entity.MealPlan),
		ratings:  make(map[string]*entity.RecipeRating),
		comments: make(map[string]*entity.MealComment),
	}
}

// Ping siempre responde; satisface usecase.DBPinger.
func (db *DB) Ping(context.Context) error { return nil }

// Las funciones siguientes asumen db.mu tomado en escritura.

func (db *DB) deleteRecipeLocked(id string) {
	delete(db.recipes, id)
	for pid, p := range db.plans {
		if p.RecipeID == id {
			db.deletePlanLocked(pid)
		}
	}
	for key, r := range db.ratings {
		if r.RecipeID == id {
			delete(db.ratings, key)
		}
	}
}

func (db *DB) deletePlanLocked(id string) {
	delete(db.plans, id)
	for cid, c := range db.comments {
		if c.MealPlanID == id {
			delete(db.comments, cid)
		}
	}
}

func (db *DB) deleteFamilyLocked(id string) {
	delete(db.families, id)
	for uid, m := range db.members {
		if m.familyID == id {
			delete(db.members, uid)
			if u := db.users[uid]; u != nil {
				u.FamilyID = ""
			}
		}
	}
	for rid, r := range db.recipes {
		if r.FamilyID == id {
			db.deleteRecipeLocked(rid)
		}
	}
	for pid, p := range db.plans {
		if p.FamilyID == id {
			db.deletePlanLocked(pid)
		}
	}
	for key, r := range db.ratings {
		if r.FamilyID == id {
			delete(db.ratings, key)
		}
	}
	for cid, c := range db.comments {
		if c.FamilyID == id {
			delete(db.comments, cid)
		}
	}
}

func (db *DB) userName(id string) string {
	if u := db.users[id]; u != nil {
		return u.Name
	}
	return ""
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.LastLoginAttempt != nil {
		t := *u.LastLoginAttempt
		c.LastLoginAttempt = &t
	}
	return &c
}

func cloneRecipe(r *entity.Recipe) *entity.Recipe {
	c := *r
	c.Ingredients = append([]string(nil), r.Ingredients...)
	return &c
}

func (db *DB) clonePlan(p *entity.MealPlan) *entity.MealPlan {
	c := *p
	c.Recipe = nil
	if r := db.recipes[p.RecipeID]; r != nil {
		c.Recipe = &entity.RecipeSummary{
			ID:         r.ID,
			Name:       r.Name,
			Category:   r.Category,
			ImageURL:   r.ImageURL,
			KidsRating: r.KidsRating,
		}
	}
	return &c
}

func sortByCreatedDesc[T any](list []T, created func(T) time.Time) {
	sort.SliceStable(list, func(i, j int) bool {
		return created(list[i]).After(created(list[j]))
	})
}
