package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"strings"
	"time"
	"unicode"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"gorm.io/gorm"

	"github.com/talkbase/talkbase-backend/internal/clients/gcp"
	"github.com/talkbase/talkbase-backend/internal/data/repos"
	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

// defaultAvatarPalette is used when no AVATAR_COLORS env override is set.
var defaultAvatarPalette = []color.NRGBA{
	{R: 0x4C, G: 0x6E, B: 0xF5, A: 0xFF},
	{R: 0x12, G: 0xB8, B: 0x86, A: 0xFF},
	{R: 0xF5, G: 0x9F, B: 0x00, A: 0xFF},
	{R: 0xE6, G: 0x4A, B: 0x19, A: 0xFF},
	{R: 0x7B, G: 0x1F, B: 0xA2, A: 0xFF},
	{R: 0x00, G: 0x83, B: 0x8F, A: 0xFF},
	{R: 0xC2, G: 0x18, B: 0x5B, A: 0xFF},
	{R: 0x5D, G: 0x40, B: 0x37, A: 0xFF},
}

type AvatarService interface {
	// GenerateContactAvatar renders an initials avatar for the contact,
	// uploads it, and points the contact's avatar_url at the new object.
	GenerateContactAvatar(ctx context.Context, tx *gorm.DB, contact *types.Contact) error
	// UploadContactAvatar replaces the contact's avatar with a caller-supplied
	// image, center-cropped and resized to the standard size.
	UploadContactAvatar(ctx context.Context, tx *gorm.DB, contact *types.Contact, raw []byte) error
}

type avatarService struct {
	db            *gorm.DB
	log           *logger.Logger
	contactRepo   repos.ContactRepo
	bucketService gcp.BucketService

	palette  []color.NRGBA
	fontFace font.Face
}

func NewAvatarService(db *gorm.DB, baseLog *logger.Logger, contactRepo repos.ContactRepo, bucketService gcp.BucketService) (AvatarService, error) {
	serviceLog := baseLog.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("Env var AVATAR_FONT is empty")
	}
	serviceLog.Info("Loading avatar font", "font", fontPath)

	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		db:            db,
		log:           serviceLog,
		contactRepo:   contactRepo,
		bucketService: bucketService,
		palette:       defaultAvatarPalette,
		fontFace:      face,
	}, nil
}

func (as *avatarService) GenerateContactAvatar(ctx context.Context, tx *gorm.DB, contact *types.Contact) error {
	if contact == nil || contact.ID == uuid.Nil {
		return fmt.Errorf("contact required")
	}

	buf, err := as.renderInitials(contact)
	if err != nil {
		return err
	}
	return as.replaceAvatarObject(ctx, tx, contact, buf)
}

func (as *avatarService) UploadContactAvatar(ctx context.Context, tx *gorm.DB, contact *types.Contact, raw []byte) error {
	if contact == nil || contact.ID == uuid.Nil {
		return fmt.Errorf("contact required")
	}

	processed, err := processUploadedAvatar(raw, 512)
	if err != nil {
		return err
	}
	return as.replaceAvatarObject(ctx, tx, contact, processed)
}

// replaceAvatarObject uploads under a versioned key so CDN caches are never
// served stale content, then best-effort deletes the previous object.
func (as *avatarService) replaceAvatarObject(ctx context.Context, tx *gorm.DB, contact *types.Contact, buf bytes.Buffer) error {
	oldURL := strings.TrimSpace(contact.AvatarURL)
	newKey := fmt.Sprintf("contact_avatar/%s/%d.png", contact.ID.String(), time.Now().UnixNano())

	if err := as.bucketService.UploadAvatar(ctx, newKey, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("failed to upload contact avatar: %w", err)
	}
	newURL := as.bucketService.PublicURL(newKey)

	if err := as.contactRepo.UpdateFields(ctx, tx, contact.AccountID, contact.ID, map[string]any{"avatar_url": newURL}); err != nil {
		return fmt.Errorf("failed to store avatar url: %w", err)
	}
	contact.AvatarURL = newURL

	if oldKey, ok := avatarKeyFromURL(oldURL); ok && oldKey != newKey {
		if err := as.bucketService.DeleteAvatar(ctx, oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
		}
	}
	return nil
}

func (as *avatarService) renderInitials(contact *types.Contact) (bytes.Buffer, error) {
	const size = 512

	dc := gg.NewContext(size, size)

	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	dc.SetColor(as.pickColor(contact.ID))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := contactInitials(contact.Name, contact.Phone)

	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

// pickColor is deterministic per contact so re-renders keep the same
// background.
func (as *avatarService) pickColor(id uuid.UUID) color.NRGBA {
	h := fnv.New32a()
	h.Write(id[:])
	return as.palette[int(h.Sum32())%len(as.palette)]
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	// Center-crop to square
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

// contactInitials takes the first letter of the first two words of the name,
// falling back to the last two phone digits for unnamed contacts.
func contactInitials(name, phone string) string {
	words := strings.Fields(name)
	initials := ""
	for _, w := range words {
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				initials += strings.ToUpper(string(r))
			}
			break
		}
		if len(initials) >= 2 {
			break
		}
	}
	if initials != "" {
		return initials
	}
	if len(phone) >= 2 {
		return phone[len(phone)-2:]
	}
	return "?"
}

func avatarKeyFromURL(url string) (string, bool) {
	idx := strings.Index(url, "contact_avatar/")
	if idx < 0 {
		return "", false
	}
	return url[idx:], true
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
