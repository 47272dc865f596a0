package meta

const (
	SourceKey   = "source"
	NameKey     = "name"
	PageKey     = "page"
	SeqKey      = "seq"
	StartKey    = "start"
	EndKey      = "end"
	ChecksumKey = "checksum"
	ChunkID     = "chunkId"
	ModelKey    = "embeddingModel"
)
