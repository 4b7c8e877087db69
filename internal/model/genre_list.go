package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Genre is a single favorite-genre entry as the frontend sends it.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Custom implementation of the []Genre serializer. The list is stored
// as a JSON blob in a single text column.

type GenreList []Genre

// Value implements the driver.Valuer interface.
// This defines how the list is stored in the database.
func (g GenreList) Value() (driver.Value, error) {
	if len(g) == 0 {
		return "[]", nil
	}

	b, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("failed to serialize GenreList, %w", err)
	}

	return string(b), nil
}

// Scan implements the sql.Scanner interface.
// This defines how the database value is converted back into go.
func (g *GenreList) Scan(value interface{}) error {
	if value == nil {
		*g = GenreList{}
		return nil
	}

	str, ok := value.(string)
	if !ok {
		b, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan GenreList, %v", value)
		}

		str = string(b)
	}

	if str == "" {
		*g = GenreList{}
		return nil
	}

	return json.Unmarshal([]byte(str), g)
}

// Contains reports whether a genre with the given id is already present.
func (g GenreList) Contains(id int) bool {
	for _, e := range g {
		if e.ID == id {
			return true
		}
	}

	return false
}
