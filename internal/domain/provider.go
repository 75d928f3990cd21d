package domain

// RawRecord is the loosely typed "fields" object of one upstream record,
// keyed by spreadsheet column name.
type RawRecord map[string]any

// Record is one row of the upstream record store.
type Record struct {
	ID          string    `json:"id,omitempty"`
	CreatedTime string    `json:"createdTime,omitempty"`
	Fields      RawRecord `json:"fields"`
}

// RecordSet is the decoded upstream response.
type RecordSet struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// Fields returns the raw field maps in record order.
func (s RecordSet) Fields() []RawRecord {
	out := make([]RawRecord, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Fields
	}
	return out
}

// Provider is a normalized directory entry. Name is never empty.
type Provider struct {
	Name               string   `json:"name"`
	Category           string   `json:"category"`
	Regions            string   `json:"regions"`
	MobilizationWindow string   `json:"mobilization"`
	Badges             []string `json:"badges"`
	Phone              string   `json:"phone"`
	Email              string   `json:"email"`
	Website            string   `json:"website"`
}

// DefaultCategory labels providers whose sheet row has no type.
const DefaultCategory = "Service Provider"

// Column aliases, in resolution order.
var (
	nameAliases         = []string{"Provider Name", "Name"}
	categoryAliases     = []string{"Provider Type", "Category"}
	regionsAliases      = []string{"Regions Served"}
	mobilizationAliases = []string{"Mobilization Window"}
	badgesAliases       = []string{"Badges Earned"}
	phoneAliases        = []string{"Primary Contact Phone", "Phone"}
	emailAliases        = []string{"Primary Contact Email", "Email"}
	websiteAliases      = []string{"Website"}
)
