// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

// Package ingest feeds rating records into the matrix: a bundled anime
// catalog, a CSV loader, and a seeded sample generator for running the
// service without external data.
package ingest

// Anime describes one catalog entry.
type Anime struct {
	ID       int     `json:"anime_id"`
	Name     string  `json:"name"`
	Genre    string  `json:"genre"`
	Type     string  `json:"type"`
	Episodes int     `json:"episodes"`
	Rating   float64 `json:"rating"`
}

var catalog = []Anime{
	{ID: 1, Name: "Attack on Titan", Genre: "Action,Drama", Type: "TV", Episodes: 87, Rating: 9.0},
	{ID: 2, Name: "Death Note", Genre: "Supernatural,Thriller", Type: "TV", Episodes: 37, Rating: 8.6},
	{ID: 3, Name: "One Piece", Genre: "Adventure,Comedy", Type: "TV", Episodes: 1000, Rating: 9.0},
	{ID: 4, Name: "Naruto", Genre: "Action,Adventure", Type: "TV", Episodes: 720, Rating: 8.4},
	{ID: 5, Name: "Dragon Ball Z", Genre: "Action,Adventure", Type: "TV", Episodes: 291, Rating: 8.7},
	{ID: 6, Name: "My Hero Academia", Genre: "Action,School", Type: "TV", Episodes: 138, Rating: 8.5},
	{ID: 7, Name: "Demon Slayer", Genre: "Action,Supernatural", Type: "TV", Episodes: 44, Rating: 8.7},
	{ID: 8, Name: "Fullmetal Alchemist", Genre: "Adventure,Drama", Type: "TV", Episodes: 64, Rating: 9.1},
	{ID: 9, Name: "Hunter x Hunter", Genre: "Adventure,Fantasy", Type: "TV", Episodes: 148, Rating: 9.0},
	{ID: 10, Name: "One Punch Man", Genre: "Action,Comedy", Type: "TV", Episodes: 24, Rating: 8.8},
	{ID: 11, Name: "Tokyo Ghoul", Genre: "Action,Horror", Type: "TV", Episodes: 48, Rating: 8.0},
	{ID: 12, Name: "Bleach", Genre: "Action,Supernatural", Type: "TV", Episodes: 366, Rating: 8.2},
	{ID: 13, Name: "Jujutsu Kaisen", Genre: "Action,School", Type: "TV", Episodes: 24, Rating: 8.6},
	{ID: 14, Name: "Mob Psycho 100", Genre: "Comedy,Supernatural", Type: "TV", Episodes: 37, Rating: 8.9},
	{ID: 15, Name: "Code Geass", Genre: "Drama,Mecha", Type: "TV", Episodes: 50, Rating: 8.9},
}

// Catalog returns the bundled anime catalog, ordered by id.
func Catalog() []Anime {
	out := make([]Anime, len(catalog))
	copy(out, catalog)
	return out
}

// AnimeByID looks up a catalog entry.
func AnimeByID(id int) (Anime, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Anime{}, false
}
