package passage

import (
	"github.com/kailas-cloud/quizdex/internal/db"
	"github.com/kailas-cloud/quizdex/internal/domain"
)

const (
	keyPrefix = domain.KeyPrefix + "passages:"
	indexName = keyPrefix + "idx"
)

// returnFields are the hash fields hydrated into domain passages.
var returnFields = []string{"__content", "collection_id", "filename", "uploaded_at"}

// indexDefinition builds the passage FT index schema for the given
// embedding dimensionality.
func indexDefinition(vectorDim int) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     indexName,
		Prefixes: []string{keyPrefix},
		Fields: []db.IndexField{
			{Name: "__content", Type: db.IndexFieldText},
			{Name: "collection_id", Type: db.IndexFieldTag},
			{Name: "filename", Type: db.IndexFieldTag},
			{Name: "uploaded_at", Type: db.IndexFieldNumeric},
			{
				Name:           "__vector",
				Type:           db.IndexFieldVector,
				VectorDim:      vectorDim,
				VectorDistance: db.DistanceCosine,
			},
		},
	}
}
