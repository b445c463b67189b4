package sqlstore

import (
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/bryanwahyu/devscreen/internal/domain/questionnaire"
	"github.com/bryanwahyu/devscreen/internal/domain/risk"
	domain "github.com/bryanwahyu/devscreen/internal/domain/screening"
)

// blobs holds the JSON columns of one row.
type blobs struct {
	responses  []byte
	videos     []byte
	assessment []byte
	review     []byte
}

func encode(s *domain.Screening) (blobs, error) {
	var b blobs
	var err error
	responses := s.Responses
	if responses == nil {
		responses = []questionnaire.Response{}
	}
	if b.responses, err = json.Marshal(responses); err != nil {
		return blobs{}, eris.Wrap(err, "sqlstore: marshal responses")
	}
	videos := s.Videos
	if videos == nil {
		videos = []domain.VideoReference{}
	}
	if b.videos, err = json.Marshal(videos); err != nil {
		return blobs{}, eris.Wrap(err, "sqlstore: marshal videos")
	}
	if b.assessment, err = json.Marshal(s.Assessment); err != nil {
		return blobs{}, eris.Wrap(err, "sqlstore: marshal assessment")
	}
	if s.Review != nil {
		if b.review, err = json.Marshal(s.Review); err != nil {
			return blobs{}, eris.Wrap(err, "sqlstore: marshal review")
		}
	}
	return b, nil
}

func (b blobs) decodeInto(s *domain.Screening) error {
	if err := json.Unmarshal(b.responses, &s.Responses); err != nil {
		return eris.Wrapf(err, "sqlstore: unmarshal responses of %s", s.ID)
	}
	if err := json.Unmarshal(b.videos, &s.Videos); err != nil {
		return eris.Wrapf(err, "sqlstore: unmarshal videos of %s", s.ID)
	}
	var a risk.Assessment
	if err := json.Unmarshal(b.assessment, &a); err != nil {
		return eris.Wrapf(err, "sqlstore: unmarshal assessment of %s", s.ID)
	}
	s.Assessment = a
	if len(b.review) > 0 && string(b.review) != "null" {
		var r domain.Review
		if err := json.Unmarshal(b.review, &r); err != nil {
			return eris.Wrapf(err, "sqlstore: unmarshal review of %s", s.ID)
		}
		s.Review = &r
	}
	return nil
}
