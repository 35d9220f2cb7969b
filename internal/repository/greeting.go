package repository

import (
	"database/sql"

	"github.com/emilianohg/punchclock/internal/models"
)

type GreetingRepo struct {
	db *sql.DB
}

func NewGreetingRepo(db *sql.DB) *GreetingRepo {
	return &GreetingRepo{db: db}
}

func (r *GreetingRepo) Get() (models.Greetings, error) {
	rows, err := r.db.Query("SELECT type, message FROM greetings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	greetings := models.Greetings{models.PunchIn: {}, models.PunchOut: {}}
	for rows.Next() {
		var typ models.PunchType
		var msg string
		if err := rows.Scan(&typ, &msg); err != nil {
			return nil, err
		}
		if _, ok := greetings[typ]; ok {
			greetings[typ] = append(greetings[typ], msg)
		}
	}
	return greetings, rows.Err()
}

func (r *GreetingRepo) Save(greetings models.Greetings) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM greetings"); err != nil {
		return err
	}
	for typ, messages := range greetings {
		for _, msg := range messages {
			if _, err := tx.Exec("INSERT INTO greetings (type, message) VALUES (?, ?)", typ, msg); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
