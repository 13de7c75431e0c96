package database

import (
	"context"

	"github.com/google/uuid"
)

const createProfile = `
INSERT INTO profiles (full_name, email, hashed_password, role)
VALUES ($1, $2, $3, $4)
RETURNING id, full_name, email, hashed_password, role, created_at
`

type CreateProfileParams struct {
	FullName       string
	Email          string
	HashedPassword string
	Role           string
}

func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) (Profile, error) {
	row := q.db.QueryRow(ctx, createProfile, arg.FullName, arg.Email, arg.HashedPassword, arg.Role)
	var p Profile
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.HashedPassword, &p.Role, &p.CreatedAt)
	return p, err
}

const getProfileByEmail = `
SELECT id, full_name, email, hashed_password, role, created_at
FROM profiles
WHERE email = $1
`

func (q *Queries) GetProfileByEmail(ctx context.Context, email string) (Profile, error) {
	row := q.db.QueryRow(ctx, getProfileByEmail, email)
	var p Profile
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.HashedPassword, &p.Role, &p.CreatedAt)
	return p, err
}

const getProfileByID = `
SELECT id, full_name, email, hashed_password, role, created_at
FROM profiles
WHERE id = $1
`

func (q *Queries) GetProfileByID(ctx context.Context, id uuid.UUID) (Profile, error) {
	row := q.db.QueryRow(ctx, getProfileByID, id)
	var p Profile
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.HashedPassword, &p.Role, &p.CreatedAt)
	return p, err
}
