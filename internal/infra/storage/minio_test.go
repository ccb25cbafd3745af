package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/listings/properties/p1/a.jpg",
		objectURL("http://localhost:9000", "listings", "properties/p1/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/listings/properties/p1/my%20house.png",
		objectURL("https://cdn.example.com/", "listings", "properties/p1/my house.png"))
}
