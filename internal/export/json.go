package export

import (
	"fmt"
	"os"
	"time"

	"github.com/seqyuan/annogene/io/fastq"

	"github.com/dusk-indust/readalign/internal/status"
)

// OutputExport is the top-level JSON export of an output directory.
type OutputExport struct {
	Dir        string         `json:"dir"`
	ExportedAt string         `json:"exportedAt"`
	Paired     bool           `json:"paired"`
	Aligned    bool           `json:"aligned"`
	Reads      []ReadsExport  `json:"reads"`
	Artifacts  []ArtifactFile `json:"artifacts,omitempty"`
}

// ReadsExport describes one merged read file.
type ReadsExport struct {
	Label   string `json:"label"`
	Path    string `json:"path"`
	Status  string `json:"status"`
	Records int    `json:"records"`
	Bases   int    `json:"bases"`
}

// ArtifactFile describes one alignment artifact.
type ArtifactFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ExportOutput builds an OutputExport from the filesystem. Merged read
// files are scanned to count their FASTQ records.
func ExportOutput(dir string) (*OutputExport, error) {
	st := status.Inspect(dir)

	export := &OutputExport{
		Dir:        dir,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Paired:     st.Paired(),
		Aligned:    st.Aligned(),
	}

	for _, f := range st.Reads {
		re := ReadsExport{Label: f.Label, Path: f.Path, Status: "absent"}
		if f.Present {
			re.Status = "present"
			records, bases, err := countFastq(f.Path)
			if err != nil {
				return nil, err
			}
			re.Records, re.Bases = records, bases
		}
		export.Reads = append(export.Reads, re)
	}
	for _, f := range st.Artifacts {
		export.Artifacts = append(export.Artifacts, ArtifactFile{Path: f.Path, Size: f.Size})
	}

	return export, nil
}

// countFastq counts the records of a FASTQ file and the bases in their
// sequences. A record whose quality string does not cover its sequence
// is reported as truncated.
func countFastq(path string) (records, bases int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	scanner := fastq.NewScanner(fastq.NewReader(f))
	for scanner.Next() {
		seq := scanner.Seq()
		if len(seq.Quality) != len(seq.Letters) {
			return 0, 0, fmt.Errorf("export: %s record %d (%s): truncated record: %d bases, %d quality scores",
				path, records+1, seq.ID1, len(seq.Letters), len(seq.Quality))
		}
		records++
		bases += len(seq.Letters)
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, fmt.Errorf("export: %s: malformed FASTQ after %d records: %w", path, records, err)
	}
	return records, bases, nil
}
