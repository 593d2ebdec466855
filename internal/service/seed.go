package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/model"
)

type seedConstituency struct {
	mpName, name, email, imageID string
	status                       model.TransparencyStatus
}

const (
	seedState       = "Karnataka"
	seedImageFormat = "http://loksabhaph.nic.in/writereaddata/biodata/16/"
)

// karnataka16thLokSabha lists constituencies with their sitting MP during
// the 16th Lok Sabha (2014-2019). Status reflects which reports are on file.
var karnataka16thLokSabha = []seedConstituency{
	{"P. C. Gaddigoudar", "Bagalkot", "pc.gaddigoudar@nic.in", "4009", model.StatusCurrent},
	{"B. Sreeramulu", "Bellary (ST)", "sreeramulu@nic.in", "4859", model.StatusCurrent},
	{"V. Srinivas Prasad", "Chamarajanagar (SC)", "v.prasad@nic.in", "3391", model.StatusCurrent},
	{"M. Veerappa Moily", "Chikkaballapur", "m.moily@nic.in", "4437", model.StatusCurrent},
	{"B. N. Chandrappa", "Chitradurga (SC)", "bn.chandrappa@nic.in", "4741", model.StatusCurrent},
	{"Nalin Kumar Kateel", "Dakshina Kannada", "nalinkumar.kateel@nic.in", "4444", model.StatusCurrent},
	{"P. C. Mohan", "Bangalore Central", "pc.mohan@nic.in", "4447", model.StatusMissing},
	{"D. V. Sadananda Gowda", "Bangalore North", "dvsadananda.gowda@nic.in", "4397", model.StatusMissing},
	{"D. K. Suresh", "Bangalore Rural", "dk.suresh@nic.in", "4726", model.StatusMissing},
	{"Ananth Kumar", "Bangalore South", "ananth.kumar@nic.in", "298", model.StatusMissing},
	{"Bhagwanth Khuba", "Bidar", "bhagwanth.khuba@nic.in", "4736", model.StatusMissing},
	{"Ramesh Jigajinagi", "Bijapur (SC)", "ramesh.jigajinagi@nic.in", "233", model.StatusMissing},
	{"Prakash Babanna Hukkeri", "Chikkodi", "prakash.hukkeri@nic.in", "4738", model.StatusMissing},
	{"G. Mallikarjunappa", "Davanagere", "gm.mallikarjunappa@nic.in", "2753", model.StatusCurrent},
	{"Prahlad Joshi", "Dharwad", "prahlad.joshi@nic.in", "4009", model.StatusCurrent},
	{"H. D. Devegowda", "Hassan", "hd.devegowda@nic.in", "192", model.StatusCurrent},
}

type SeedResult struct {
	Total    int `json:"total"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

type SeedService struct {
	constituencies ConstituencyStore
	logger         *zerolog.Logger
	now            func() time.Time
}

func NewSeedService(constituencies ConstituencyStore, logger *zerolog.Logger) *SeedService {
	return &SeedService{constituencies: constituencies, logger: logger, now: time.Now}
}

// SeedData returns the master list. Constituencies marked Current get
// today as their report date.
func (s *SeedService) SeedData() []model.Constituency {
	today := model.NewDate(s.now())

	out := make([]model.Constituency, 0, len(karnataka16thLokSabha))
	for _, c := range karnataka16thLokSabha {
		email, image := c.email, seedImageFormat+c.imageID+".jpg"
		row := model.Constituency{
			MPName:             c.mpName,
			ConstituencyName:   c.name,
			State:              seedState,
			TransparencyStatus: c.status,
			MPEmail:            &email,
			MPImageURL:         &image,
		}
		if c.status == model.StatusCurrent {
			row.LastReportDate = today
		}
		out = append(out, row)
	}
	return out
}

// Seed upserts the master list in one transaction.
func (s *SeedService) Seed(ctx context.Context) (*SeedResult, error) {
	rows := s.SeedData()
	inserted, err := s.constituencies.UpsertMany(ctx, rows)
	if err != nil {
		return nil, err
	}

	result := &SeedResult{Total: len(rows), Inserted: inserted, Updated: len(rows) - inserted}
	s.logger.Info().
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Msg("constituencies seeded")
	return result, nil
}
