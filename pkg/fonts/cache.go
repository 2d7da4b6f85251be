package fonts

import (
	"math"

	"golang.org/x/image/font"
)

type faceKey struct {
	size   int64 // size in 1/64 px
	weight Weight
}

// Cache memoizes faces from a shared Provider for a single render. It is not
// safe for concurrent use; create one per goroutine.
type Cache struct {
	p     Provider
	faces map[faceKey]font.Face
}

// NewCache wraps p. A nil p uses the embedded sans family.
func NewCache(p Provider) *Cache {
	if p == nil {
		p = Embedded{}
	}
	return &Cache{p: p, faces: make(map[faceKey]font.Face)}
}

// Face implements Provider.
func (c *Cache) Face(size float64, weight Weight) (font.Face, error) {
	k := faceKey{size: int64(math.Round(size * 64)), weight: weight}
	if f, ok := c.faces[k]; ok {
		return f, nil
	}
	f, err := c.p.Face(size, weight)
	if err != nil {
		return nil, err
	}
	c.faces[k] = f
	return f, nil
}

// Len returns the number of cached faces.
func (c *Cache) Len() int { return len(c.faces) }

// Close releases every cached face.
func (c *Cache) Close() error {
	for k, f := range c.faces {
		f.Close()
		delete(c.faces, k)
	}
	return nil
}
