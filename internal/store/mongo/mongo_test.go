package mongo_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store/mongo"
)

func TestNormalize(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	oid := primitive.NewObjectID()

	doc := bson.M{
		"_id":       "user-1",
		"email":     "admin@pathx.dev",
		"createdAt": primitive.NewDateTimeFromTime(created),
		"skills":    primitive.A{"Go", "Docker"},
		"owner":     oid,
		"meta":      bson.M{"seededAt": primitive.NewDateTimeFromTime(created)},
		"extra":     bson.D{{Key: "k", Value: "v"}},
	}

	id, rec := mongo.Normalize(doc)
	if id != "user-1" {
		t.Errorf("id = %q, want user-1", id)
	}
	if _, ok := rec["_id"]; ok {
		t.Error("_id must not be part of the record body")
	}
	if got, ok := rec["createdAt"].(time.Time); !ok || !got.Equal(created) {
		t.Errorf("createdAt = %#v, want %v", rec["createdAt"], created)
	}
	skills, ok := rec["skills"].([]any)
	if !ok || len(skills) != 2 || skills[0] != "Go" {
		t.Errorf("skills = %#v", rec["skills"])
	}
	if rec["owner"] != oid.Hex() {
		t.Errorf("owner = %#v, want %s", rec["owner"], oid.Hex())
	}
	meta, ok := rec["meta"].(map[string]any)
	if !ok {
		t.Fatalf("meta = %#v, want map[string]any", rec["meta"])
	}
	if _, ok := meta["seededAt"].(time.Time); !ok {
		t.Errorf("nested date not normalized: %#v", meta["seededAt"])
	}
	if extra, ok := rec["extra"].(map[string]any); !ok || extra["k"] != "v" {
		t.Errorf("extra = %#v", rec["extra"])
	}
}

func TestNormalize_ObjectIDKey(t *testing.T) {
	oid := primitive.NewObjectID()
	id, rec := mongo.Normalize(bson.M{"_id": oid, "title": "x"})
	if id != oid.Hex() {
		t.Errorf("id = %q, want %q", id, oid.Hex())
	}
	if rec["title"] != "x" {
		t.Errorf("title = %v", rec["title"])
	}
}

func TestIDFilter_MatchesObjectIDKeys(t *testing.T) {
	oid := primitive.NewObjectID()
	id, _ := mongo.Normalize(bson.M{"_id": oid, "title": "posted from the web app"})

	filter := mongo.IDFilter(id)
	cond, ok := filter["_id"].(bson.M)
	if !ok {
		t.Fatalf("filter = %#v, want an $in condition on _id", filter)
	}
	in, ok := cond["$in"].(bson.A)
	if !ok || len(in) != 2 {
		t.Fatalf("$in = %#v, want string and ObjectID forms", cond["$in"])
	}

	var sawHex, sawOID bool
	for _, v := range in {
		switch key := v.(type) {
		case string:
			sawHex = key == oid.Hex()
		case primitive.ObjectID:
			sawOID = key == oid
		}
	}
	if !sawHex || !sawOID {
		t.Errorf("$in = %#v, want both %q and ObjectID(%s)", in, oid.Hex(), oid.Hex())
	}

	// The filter must survive encoding with the ObjectID intact.
	raw, err := bson.Marshal(filter)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}
	vals, err := bson.Raw(raw).LookupErr("_id", "$in")
	if err != nil {
		t.Fatalf("lookup _id.$in: %v", err)
	}
	elems, err := vals.Array().Values()
	if err != nil || len(elems) != 2 {
		t.Fatalf("encoded $in = %v, %v", elems, err)
	}
	if got, ok := elems[1].ObjectIDOK(); !ok || got != oid {
		t.Errorf("encoded second key = %v, want ObjectID %s", elems[1], oid.Hex())
	}
}

func TestIDFilter_StringKeys(t *testing.T) {
	filter := mongo.IDFilter("user-1")
	if filter["_id"] != "user-1" {
		t.Errorf("filter = %#v, want plain string match", filter)
	}
}
