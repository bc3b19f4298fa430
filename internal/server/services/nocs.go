package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
	"github.com/dev-tanvu/mateluxy-backend/internal/dbx"
	"github.com/dev-tanvu/mateluxy-backend/internal/logging"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/blob"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/repomanager"
)

// AgreementRenderer renders a listing agreement to PDF bytes.
type AgreementRenderer interface {
	RenderAgreement(ctx context.Context, noc *models.NOC) ([]byte, error)
}

// NOCService manages listing agreements: transactional create with owner
// sub-records, signature uploads, and synchronous PDF generation that
// degrades to a missing pdf_url instead of failing the document.
type NOCService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blob        blob.Store
	renderer    AgreementRenderer
	logger      logging.Logger
}

func NewNOCService(db *sql.DB, m repomanager.RepositoryManager, store blob.Store, renderer AgreementRenderer, logger logging.Logger) *NOCService {
	return &NOCService{db: db, repomanager: m, blob: store, renderer: renderer, logger: logger}
}

// NOCInput carries the document as submitted. Dates arrive as strings and
// are parsed defensively: anything unparsable becomes null rather than an
// error, matching how the paper form tolerates blanks.
type NOCInput struct {
	PropertyType        string
	BuildingProjectName string
	Community           string
	StreetName          string
	BuildUpArea         string
	PlotArea            string
	Bedrooms            string
	Bathrooms           string
	RentalAmount        string
	SaleAmount          string
	Parking             string
	AgreementType       string
	PeriodMonths        int
	AgreementDate       string
	ClientPhone         string
	Location            string
	Latitude            string
	Longitude           string
	Owners              []NOCOwnerInput
}

type NOCOwnerInput struct {
	Name          string
	EmiratesID    string
	IssueDate     string
	ExpiryDate    string
	CountryCode   string
	Phone         string
	SignatureDate string
}

// SignatureFile is one uploaded signature image, keyed by owner index via
// the signatures_<i> form-field convention.
type SignatureFile struct {
	Data        []byte
	ContentType string
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// safeDate parses a submitted date, returning nil when it cannot.
func safeDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func (s *NOCService) Create(ctx context.Context, in *NOCInput, signatures map[int]SignatureFile) (*models.NOC, error) {
	noc := &models.NOC{
		PropertyType:        in.PropertyType,
		BuildingProjectName: in.BuildingProjectName,
		Community:           in.Community,
		StreetName:          in.StreetName,
		BuildUpArea:         in.BuildUpArea,
		PlotArea:            in.PlotArea,
		Bedrooms:            in.Bedrooms,
		Bathrooms:           in.Bathrooms,
		RentalAmount:        in.RentalAmount,
		SaleAmount:          in.SaleAmount,
		Parking:             in.Parking,
		AgreementType:       in.AgreementType,
		PeriodMonths:        in.PeriodMonths,
		AgreementDate:       safeDate(in.AgreementDate),
		ClientPhone:         in.ClientPhone,
		Location:            in.Location,
		Latitude:            in.Latitude,
		Longitude:           in.Longitude,
	}

	for i, o := range in.Owners {
		owner := models.NOCOwner{
			Position:      i,
			Name:          o.Name,
			EmiratesID:    o.EmiratesID,
			IssueDate:     safeDate(o.IssueDate),
			ExpiryDate:    safeDate(o.ExpiryDate),
			CountryCode:   o.CountryCode,
			Phone:         o.Phone,
			SignatureDate: safeDate(o.SignatureDate),
		}

		if sig, ok := signatures[i]; ok {
			url, err := s.blob.Store(ctx, sig.Data, sig.ContentType)
			if err != nil {
				s.logger.Warn(ctx, "signature upload failed", "owner", i, "error", err)
			} else {
				owner.SignatureURL = &url
			}
		}

		noc.Owners = append(noc.Owners, owner)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.NOCs(tx)
		return repo.Insert(ctx, noc)
	})
	if err != nil {
		return nil, err
	}

	// the document is committed; pdf generation may only improve it
	s.renderAndAttach(ctx, noc)

	return noc, nil
}

// renderAndAttach renders the agreement, stores the PDF and persists its
// URL. Every failure is logged and swallowed, leaving pdf_url unset.
func (s *NOCService) renderAndAttach(ctx context.Context, noc *models.NOC) {
	data, err := s.renderer.RenderAgreement(ctx, noc)
	if err != nil {
		s.logger.Error(ctx, "agreement render failed", "noc", noc.ID, "error", err)
		return
	}

	url, err := s.blob.Store(ctx, data, "application/pdf")
	if err != nil {
		s.logger.Error(ctx, "agreement upload failed", "noc", noc.ID, "error", err)
		return
	}

	repo := s.repomanager.NOCs(s.db)
	if err := repo.SetPDFURL(ctx, noc.ID, url); err != nil {
		s.logger.Error(ctx, "agreement url persist failed", "noc", noc.ID, "error", err)
		return
	}
	noc.PDFURL = &url
}

func (s *NOCService) List(ctx context.Context) ([]*models.NOC, error) {
	repo := s.repomanager.NOCs(s.db)

	docs, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing agreements: %w", err)
	}
	return docs, nil
}

func (s *NOCService) Get(ctx context.Context, id string) (*models.NOC, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}

	repo := s.repomanager.NOCs(s.db)
	return repo.Get(ctx, id)
}

// GetOrRegeneratePdf returns the stored PDF URL, regenerating the document
// synchronously when none was attached. NotFound when regeneration fails
// too: there is no PDF to hand out.
func (s *NOCService) GetOrRegeneratePdf(ctx context.Context, id string) (string, error) {
	noc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if noc.PDFURL != nil && *noc.PDFURL != "" {
		return *noc.PDFURL, nil
	}

	s.renderAndAttach(ctx, noc)
	if noc.PDFURL == nil {
		return "", common.ErrNotFound
	}
	return *noc.PDFURL, nil
}
