package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	_ "github.com/lib/pq"
)

type cfg struct {
	DSN      string
	Count    int
	Seed     int64
	Truncate bool
	LikeRate float64 // proportion of user pairs receiving a one-way like
}

var genders = []string{"male", "female", "other"}

var hobbyPool = []string{
	"reading", "chess", "hiking", "cooking", "photography", "painting",
	"cycling", "gaming", "yoga", "guitar", "gardening", "climbing",
}

func main() {
	var c cfg
	flag.StringVar(&c.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres DSN [env: DATABASE_URL]")
	flag.IntVar(&c.Count, "count", 200, "Number of profiles to create")
	flag.Int64Var(&c.Seed, "seed", 42, "RNG seed (deterministic)")
	flag.BoolVar(&c.Truncate, "truncate", false, "TRUNCATE target tables before running")
	flag.Float64Var(&c.LikeRate, "like-rate", 0.15, "Proportion of one-way likes per user (0..1)")
	flag.Parse()

	if c.DSN == "" {
		log.Fatal("Missing DSN: provide --dsn or set DATABASE_URL")
	}
	if c.Count < 1 {
		log.Fatal("--count must be at least 1")
	}
	if c.LikeRate < 0 || c.LikeRate > 1 {
		log.Fatal("--like-rate must be in range 0..1")
	}

	r := rand.New(rand.NewSource(c.Seed))
	faker := gofakeit.New(c.Seed)

	db, err := sql.Open("postgres", c.DSN)
	if err != nil {
		log.Fatal("DB open error:", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// One big transaction so a constraint failure rolls everything back.
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		log.Fatal("begin tx:", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if c.Truncate {
		if _, err := tx.ExecContext(ctx, `TRUNCATE likes, profiles`); err != nil {
			_ = tx.Rollback()
			log.Fatal("truncate:", err)
		}
	}

	userIDs := make([]string, 0, c.Count)
	for i := 0; i < c.Count; i++ {
		id := fmt.Sprintf("seed-%06d", i+1)
		userIDs = append(userIDs, id)

		hobbies := pickHobbies(r)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (user_id, name, gender, age, hobbies, bio)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id) DO UPDATE SET
				name = EXCLUDED.name,
				gender = EXCLUDED.gender,
				age = EXCLUDED.age,
				hobbies = EXCLUDED.hobbies,
				bio = EXCLUDED.bio
		`, id, faker.FirstName(), genders[r.Intn(len(genders))],
			fmt.Sprint(18+r.Intn(42)), hobbies, faker.Sentence(8))
		if err != nil {
			_ = tx.Rollback()
			log.Fatal("insert profile:", err)
		}
	}

	likes := 0
	for _, from := range userIDs {
		if r.Float64() >= c.LikeRate {
			continue
		}
		to := userIDs[r.Intn(len(userIDs))]
		if to == from {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO likes (from_user_id, to_user_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, from, to); err != nil {
			_ = tx.Rollback()
			log.Fatal("insert like:", err)
		}
		likes++
	}

	if err := tx.Commit(); err != nil {
		log.Fatal("commit:", err)
	}
	log.Printf("Seeded %d profiles and %d likes", len(userIDs), likes)
}

func pickHobbies(r *rand.Rand) string {
	n := 1 + r.Intn(4)
	picked := make(map[string]struct{}, n)
	for len(picked) < n {
		picked[hobbyPool[r.Intn(len(hobbyPool))]] = struct{}{}
	}
	out := make([]string, 0, n)
	for h := range picked {
		out = append(out, h)
	}
	return strings.Join(out, ",")
}
