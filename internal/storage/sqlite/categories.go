package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/savieapp/savie/internal/models"
)

// defaultCategories is the fixed set seeded on first run. Insertion order is
// classification order, with the fallback category last.
var defaultCategories = []models.Category{
	{Name: "Food", Keywords: "restaurant,snack,food,pizza,grocery,lunch,dinner", Glyph: "🍽️"},
	{Name: "Transport", Keywords: "uber,taxi,fuel,gas,bus,subway,ticket,parking", Glyph: "🚗"},
	{Name: "Housing", Keywords: "rent,condo,electricity,water,internet,utilities", Glyph: "🏠"},
	{Name: "Health", Keywords: "pharmacy,doctor,hospital,consultation,medicine,exam,insurance", Glyph: "🏥"},
	{Name: "Leisure", Keywords: "cinema,show,party,bar,trip,streaming,netflix,spotify", Glyph: "🎉"},
	{Name: "Education", Keywords: "course,book,school,college,university", Glyph: "📚"},
	{Name: "Shopping", Keywords: "clothes,shoes,phone,computer,electronics,gift", Glyph: "🛍️"},
	{Name: "Services", Keywords: "salon,barber,laundry,gym,petshop", Glyph: "🛠️"},
	{Name: "Other", Keywords: "tax,fee,donation,misc", Glyph: "📦"},
}

// seedDefaultCategories inserts the default set when the table is empty.
// Existing categories are never touched or auto-deleted.
func seedDefaultCategories(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, cat := range defaultCategories {
		if _, err := tx.Exec(
			"INSERT INTO categories (name, keywords, glyph) VALUES (?, ?, ?)",
			cat.Name, cat.Keywords, cat.Glyph,
		); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", cat.Name, err)
		}
	}
	return tx.Commit()
}

// Categories returns all categories in creation order.
func (s *SQLiteStore) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, keywords, glyph FROM categories ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Keywords, &cat.Glyph); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}
