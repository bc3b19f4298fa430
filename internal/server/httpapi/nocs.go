package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/services"
)

const maxNOCFormSize = 32 << 20 // 32 MiB

// AgreementStore is the surface of the NOC service the handler needs.
type AgreementStore interface {
	Create(ctx context.Context, in *services.NOCInput, signatures map[int]services.SignatureFile) (*models.NOC, error)
	List(ctx context.Context) ([]*models.NOC, error)
	Get(ctx context.Context, id string) (*models.NOC, error)
	GetOrRegeneratePdf(ctx context.Context, id string) (string, error)
}

type NOCHandler struct {
	service  AgreementStore
	validate *validator.Validate
}

func NewNOCHandler(service AgreementStore) *NOCHandler {
	return &NOCHandler{service: service, validate: validator.New()}
}

type nocOwnerRequest struct {
	Name          string `json:"name" validate:"required"`
	EmiratesID    string `json:"emiratesId"`
	IssueDate     string `json:"issueDate"`
	ExpiryDate    string `json:"expiryDate"`
	CountryCode   string `json:"countryCode"`
	Phone         string `json:"phone"`
	SignatureDate string `json:"signatureDate"`
}

type createNOCRequest struct {
	PropertyType        string            `json:"propertyType"`
	BuildingProjectName string            `json:"buildingProjectName"`
	Community           string            `json:"community"`
	StreetName          string            `json:"streetName"`
	BuildUpArea         string            `json:"buildUpArea"`
	PlotArea            string            `json:"plotArea"`
	Bedrooms            string            `json:"bedrooms"`
	Bathrooms           string            `json:"bathrooms"`
	RentalAmount        string            `json:"rentalAmount"`
	SaleAmount          string            `json:"saleAmount"`
	Parking             string            `json:"parking"`
	AgreementType       string            `json:"agreementType"`
	PeriodMonths        int               `json:"periodMonths"`
	AgreementDate       string            `json:"agreementDate"`
	ClientPhone         string            `json:"clientPhone" validate:"required"`
	Location            string            `json:"location"`
	Latitude            string            `json:"latitude"`
	Longitude           string            `json:"longitude"`
	Owners              []nocOwnerRequest `json:"owners" validate:"dive"`
}

func (req *createNOCRequest) toInput() *services.NOCInput {
	in := &services.NOCInput{
		PropertyType:        req.PropertyType,
		BuildingProjectName: req.BuildingProjectName,
		Community:           req.Community,
		StreetName:          req.StreetName,
		BuildUpArea:         req.BuildUpArea,
		PlotArea:            req.PlotArea,
		Bedrooms:            req.Bedrooms,
		Bathrooms:           req.Bathrooms,
		RentalAmount:        req.RentalAmount,
		SaleAmount:          req.SaleAmount,
		Parking:             req.Parking,
		AgreementType:       req.AgreementType,
		PeriodMonths:        req.PeriodMonths,
		AgreementDate:       req.AgreementDate,
		ClientPhone:         req.ClientPhone,
		Location:            req.Location,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
	}
	for _, o := range req.Owners {
		in.Owners = append(in.Owners, services.NOCOwnerInput{
			Name:          o.Name,
			EmiratesID:    o.EmiratesID,
			IssueDate:     o.IssueDate,
			ExpiryDate:    o.ExpiryDate,
			CountryCode:   o.CountryCode,
			Phone:         o.Phone,
			SignatureDate: o.SignatureDate,
		})
	}
	return in
}

// Create accepts either a plain JSON document or a multipart form with a
// "data" JSON part and signature images under signatures_<i>, where i is
// the owner index.
func (h *NOCHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNOCRequest
	signatures := map[int]services.SignatureFile{}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxNOCFormSize); err != nil {
			BadRequest(w, "invalid multipart form")
			return
		}

		if err := json.Unmarshal([]byte(r.FormValue("data")), &req); err != nil {
			BadRequest(w, "invalid data payload")
			return
		}

		for field, headers := range r.MultipartForm.File {
			idx, ok := signatureIndex(field)
			if !ok || len(headers) == 0 {
				continue
			}
			f, err := headers[0].Open()
			if err != nil {
				BadRequest(w, fmt.Sprintf("unreadable file %s", field))
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				BadRequest(w, fmt.Sprintf("unreadable file %s", field))
				return
			}
			signatures[idx] = services.SignatureFile{
				Data:        data,
				ContentType: headers[0].Header.Get("Content-Type"),
			}
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			BadRequest(w, "invalid request payload")
			return
		}
	}

	if err := h.validate.Struct(req); err != nil {
		BadRequest(w, err.Error())
		return
	}

	noc, err := h.service.Create(r.Context(), req.toInput(), signatures)
	if err != nil {
		ServiceError(w, err)
		return
	}

	Created(w, noc)
}

// signatureIndex parses the signatures_<i> form-field convention.
func signatureIndex(field string) (int, bool) {
	const prefix = "signatures_"
	if !strings.HasPrefix(field, prefix) {
		return 0, false
	}
	idx, err := strconv.Atoi(strings.TrimPrefix(field, prefix))
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

func (h *NOCHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.List(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, docs)
}

func (h *NOCHandler) Get(w http.ResponseWriter, r *http.Request) {
	noc, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, noc)
}

func (h *NOCHandler) GetPdf(w http.ResponseWriter, r *http.Request) {
	url, err := h.service.GetOrRegeneratePdf(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		ServiceError(w, err)
		return
	}
	Success(w, map[string]string{"url": url})
}
