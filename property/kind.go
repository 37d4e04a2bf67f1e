// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package property implements the execution-property model attached to
// graph vertices and edges: a closed set of property kinds, each with
// its own value domain, and a bag that stores at most one value per
// kind with optional permanent (non-overridable) markers.
package property

// Kind identifies a single execution-property slot. The set of kinds
// is closed; Bag rejects any kind it does not recognise the domain of.
type Kind int

const (
	// ParallelismKind is the vertex fan-out; domain: positive int.
	ParallelismKind Kind = iota
	// CommunicationPatternKind is the edge shape; domain: OneToOne, BroadCast, Shuffle.
	CommunicationPatternKind
	// DataStoreKind is the edge materialisation; domain: Memory, SerializedMemory, Disk.
	DataStoreKind
	// DataPersistenceKind is the edge retention; domain: Keep, Discard.
	DataPersistenceKind
	// DataFlowKind is the edge transport direction; domain: Push, Pull.
	DataFlowKind
	// KeyExtractorKind is the key-derivation contract.
	KeyExtractorKind
	// EncoderKind is the element-serialisation factory on write.
	EncoderKind
	// DecoderKind is the element-serialisation factory on read.
	DecoderKind
	// KeyEncoderKind is the key-serialisation factory on write.
	KeyEncoderKind
	// KeyDecoderKind is the key-serialisation factory on read.
	KeyDecoderKind
	// AdditionalOutputTagKind names a side output; domain: non-empty string.
	AdditionalOutputTagKind
	// MetricCollectionKind ties an edge to an aggregation id; domain: positive int.
	MetricCollectionKind
	// ShuffleDistributionKind is the sampled shuffle read window.
	ShuffleDistributionKind
	// OneToOneDistributionKind is the sampled O2O read mapping.
	OneToOneDistributionKind
	// DuplicateEdgeGroupKind is a shared-data hint; domain: non-empty string.
	DuplicateEdgeGroupKind
	// ResourceSlotKind says whether the vertex occupies a normal execution slot.
	ResourceSlotKind
)

// String returns a human-readable name, used in diagnostics.
func (k Kind) String() string {
	switch k {
	case ParallelismKind:
		return "Parallelism"
	case CommunicationPatternKind:
		return "CommunicationPattern"
	case DataStoreKind:
		return "DataStore"
	case DataPersistenceKind:
		return "DataPersistence"
	case DataFlowKind:
		return "DataFlow"
	case KeyExtractorKind:
		return "KeyExtractor"
	case EncoderKind:
		return "Encoder"
	case DecoderKind:
		return "Decoder"
	case KeyEncoderKind:
		return "KeyEncoder"
	case KeyDecoderKind:
		return "KeyDecoder"
	case AdditionalOutputTagKind:
		return "AdditionalOutputTag"
	case MetricCollectionKind:
		return "MetricCollection"
	case ShuffleDistributionKind:
		return "ShuffleDistribution"
	case OneToOneDistributionKind:
		return "OneToOneDistribution"
	case DuplicateEdgeGroupKind:
		return "DuplicateEdgeGroup"
	case ResourceSlotKind:
		return "ResourceSlot"
	default:
		return "Unknown"
	}
}
