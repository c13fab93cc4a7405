package panel

import (
	"encoding/json"
	"fmt"

	"github.com/meur/attractions-admin/internal/models"
)

// Export is a downloadable dump of the snapshot.
type Export struct {
	Filename string
	Data     []byte
}

// Export serializes the whole snapshot, ignoring any filter or search, as
// indented JSON. It does not refetch first.
func (p *Panel) Export() (Export, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	list := p.snapshot
	if list == nil {
		list = []models.Attraction{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		p.notices.setError("Export failed: " + err.Error())
		return Export{}, fmt.Errorf("encode snapshot: %w", err)
	}

	now := p.now()
	p.notices.addSuccess(now, "Export ready")
	return Export{
		Filename: "attractions_" + now.UTC().Format("2006-01-02") + ".json",
		Data:     data,
	}, nil
}
