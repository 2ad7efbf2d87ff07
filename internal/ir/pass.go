package ir

// Pass is the outcome of one evaluation pass over one object: the field
// values the rules saw and what applying their effects did.
//
// Token is globally unique; Seq orders passes within one store.
type Pass struct {
	Token        string            `json:"token"`
	Seq          int64             `json:"seq"`
	ObjectPHID   string            `json:"object_phid"`
	ObjectName   string            `json:"object_name"`
	ContentType  string            `json:"content_type"`
	Fields       IRObject          `json:"fields"`
	SnapshotHash string            `json:"snapshot_hash"`
	Transcripts  []ApplyTranscript `json:"transcripts"`
}

// StoredTranscript is a transcript as read back from the store.
type StoredTranscript struct {
	ID        string `json:"id"`
	PassToken string `json:"pass_token"`
	Index     int    `json:"index"`
	EffectID  string `json:"effect_id"`
	ApplyTranscript
}
