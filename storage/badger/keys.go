package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/sothis-labs/recollect/core"
)

// Key prefixes for different data types
const (
	recordPrefix          = "msgrec"
	recordDatePrefix      = "msgrecd"
	recordContainerPrefix = "msgrecc"
	analysisPrefix        = "anarec"
	analysisDatePrefix    = "anarecd"
	analysisIDSeq         = "anarecseq"
)

// makeRecordKey generates the primary key for a record by ID.
func makeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", recordPrefix, id))
}

// makeRecordDateKey generates a composite key for the timestamp index.
// Format: prefix:timestamp:id, with both fields written BigEndian so the
// lexicographic key order matches chronological order.
func makeRecordDateKey(timestamp time.Time, id core.ID) []byte {
	return appendUint64(appendUint64([]byte(recordDatePrefix+":"), uint64(timestamp.UnixMicro())), uint64(id))
}

// makePartialRecordDateKey generates a partial key for date range queries.
func makePartialRecordDateKey(timestamp time.Time) []byte {
	return appendUint64([]byte(recordDatePrefix+":"), uint64(timestamp.UnixMicro()))
}

// makeRecordContainerKey generates a composite key for the container index.
// Format: prefix:containerHash:timestamp:id, so a reverse scan over one
// container's partial key yields its records newest first.
func makeRecordContainerKey(containerID string, timestamp time.Time, id core.ID) []byte {
	key := makePartialRecordContainerKey(containerID)
	return appendUint64(appendUint64(key, uint64(timestamp.UnixMicro())), uint64(id))
}

// makePartialRecordContainerKey generates a partial key for container queries.
func makePartialRecordContainerKey(containerID string) []byte {
	return appendUint64([]byte(recordContainerPrefix+":"), uint64(core.IDFromContent(containerID)))
}

// makeAnalysisKey generates the primary key for an analysis by ID.
func makeAnalysisKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", analysisPrefix, id))
}

// makeAnalysisDateKey generates a composite key for the analysis date index.
func makeAnalysisDateKey(createdAt time.Time, id core.ID) []byte {
	return appendUint64(appendUint64([]byte(analysisDatePrefix+":"), uint64(createdAt.UnixMicro())), uint64(id))
}

func appendUint64(key []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(key, v)
}
