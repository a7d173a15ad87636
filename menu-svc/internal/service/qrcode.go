package service

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/skip2/go-qrcode"
)

const DefaultQRSize = 300

type DefaultQRGenerator struct {
	Size int
}

func (g DefaultQRGenerator) Generate(content string) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = DefaultQRSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}

// QRPayload is the embeddable form of a venue QR code.
type QRPayload struct {
	QRCode  string `json:"qrCode"`
	QRImage string `json:"qrImage"`
	URL     string `json:"url"`
}

type QRServiceInterface interface {
	MenuURL(slug string) string
	Payload(ctx context.Context, p Principal, venueID int64) (*QRPayload, error)
	Image(ctx context.Context, venueID int64) ([]byte, error)
}

type QRService struct {
	venues      VenueRepository
	qrEncoder   QRGenerator
	frontendURL string
}

func NewQRService(venues VenueRepository, qr QRGenerator, frontendURL string) *QRService {
	return &QRService{venues: venues, qrEncoder: qr, frontendURL: strings.TrimRight(frontendURL, "/")}
}

// MenuURL is the public menu page a venue QR code points at.
func (s *QRService) MenuURL(slug string) string {
	return s.frontendURL + "/menu/" + slug
}

func (s *QRService) Payload(ctx context.Context, p Principal, venueID int64) (*QRPayload, error) {
	venue, err := loadManagedVenue(ctx, s.venues, p, venueID)
	if err != nil {
		return nil, err
	}

	url := s.MenuURL(venue.Slug)
	png, err := s.qrEncoder.Generate(url)
	if err != nil {
		return nil, integration("Failed to generate QR", err)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	return &QRPayload{QRCode: dataURL, QRImage: dataURL, URL: url}, nil
}

func (s *QRService) Image(ctx context.Context, venueID int64) ([]byte, error) {
	venue, err := s.venues.GetVenue(ctx, venueID)
	if err != nil {
		return nil, mapVenueErr(err)
	}

	png, err := s.qrEncoder.Generate(s.MenuURL(venue.Slug))
	if err != nil {
		return nil, integration("Failed to generate QR", err)
	}
	return png, nil
}

var _ QRServiceInterface = (*QRService)(nil)
