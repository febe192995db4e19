package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"databazaar/internal/bazaar"
	"databazaar/internal/config"
	"databazaar/internal/database"
	"databazaar/internal/database/migrations"
	"databazaar/internal/encryption"
)

// ErrNoIdentity is returned when neither the config nor the command line names a caller.
var ErrNoIdentity = errors.New("no caller identity: set identity in config or pass --as")

// ErrKeysNotConfigured is returned when an operation needs the key pair before `keys init` ran.
var ErrKeysNotConfigured = errors.New("encryption keys not configured: run 'bazaar keys init'")

// BazaarApp is the application layer between the CLI and ListingService.
// It constructs all dependencies from config, attaches the caller identity
// to every request and manages the storage lifecycle on Close.
type BazaarApp struct {
	cfg       *config.Config
	storage   bazaar.Storage
	encryptor bazaar.Encryptor
	service   *bazaar.ListingService
	clock     bazaar.Clock
	caller    bazaar.Identity
	logFile   *os.File
}

// NewBazaarApp creates a fully wired BazaarApp from the given config.
// operation identifies the CLI command being run (e.g. "create", "upload").
// callerOverride, when non-empty, replaces the identity from config.
// The caller must call Close when done.
func NewBazaarApp(cfg *config.Config, operation, callerOverride string) (*BazaarApp, error) {
	caller := bazaar.Identity(cfg.Identity)
	if callerOverride != "" {
		caller = bazaar.Identity(callerOverride)
	}
	if caller == "" {
		return nil, ErrNoIdentity
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	storage, err := database.NewStorageFromConfig(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	opID := fmt.Sprintf("%s-%s", operation, time.Now().UTC().Format("20060102T150405Z"))
	logger, logFile, err := newLogger(cfg.LogDir, opID, level)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger = logger.With("caller", string(caller))
	logger.Debug("store opened", "type", cfg.Store.Type)

	svc := bazaar.NewListingService(storage, storage, &slogAdapter{l: logger})

	return &BazaarApp{
		cfg:       cfg,
		storage:   storage,
		encryptor: enc,
		service:   svc,
		clock:     bazaar.RealClock{},
		caller:    caller,
		logFile:   logFile,
	}, nil
}

// Caller returns the identity every request of this app is made as.
func (a *BazaarApp) Caller() bazaar.Identity {
	return a.caller
}

func (a *BazaarApp) request() bazaar.RequestContext {
	return bazaar.NewRequestContext(a.caller, a.clock)
}

// CreateListing creates a listing owned by the caller and returns its identifier.
func (a *BazaarApp) CreateListing(name, description string, price uint64) (uint64, error) {
	return a.service.CreateListing(a.request(), name, description, price)
}

// UploadData replaces the payload of listing id. When encrypt is true the
// payload is sealed to the configured public key first.
func (a *BazaarApp) UploadData(id uint64, payload []byte, encrypt bool) error {
	if encrypt {
		if !a.encryptor.IsConfigured() {
			return ErrKeysNotConfigured
		}
		sealed, err := encryption.SealPayload(a.encryptor, payload)
		if err != nil {
			return fmt.Errorf("encrypting payload: %w", err)
		}
		payload = sealed
	}
	return a.service.UploadData(a.request(), id, payload)
}

// UploadFile reads path and uploads its contents as the payload of listing id.
func (a *BazaarApp) UploadFile(id uint64, path string, encrypt bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading payload file: %w", err)
	}
	return a.UploadData(id, data, encrypt)
}

// ListAllListings returns every listing with payloads stripped.
func (a *BazaarApp) ListAllListings() ([]*bazaar.Listing, error) {
	return a.service.ListAllListings()
}

// GetListing returns the full record of listing id, payload included.
func (a *BazaarApp) GetListing(id uint64) (*bazaar.Listing, error) {
	return a.service.GetListing(id)
}

// GetMyListings returns the caller's listings with payloads stripped.
func (a *BazaarApp) GetMyListings() ([]*bazaar.Listing, error) {
	return a.service.GetMyListings(a.request())
}

// DecryptPayload unlocks the private key with passphrase and returns the
// plaintext of the listing's payload.
func (a *BazaarApp) DecryptPayload(l *bazaar.Listing, passphrase string) ([]byte, error) {
	if !a.encryptor.IsConfigured() {
		return nil, ErrKeysNotConfigured
	}
	dc, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return nil, fmt.Errorf("unlocking private key: %w", err)
	}
	plain, err := encryption.OpenPayload(dc, l.DataContent)
	if err != nil {
		return nil, fmt.Errorf("decrypting listing %d: %w", l.ID, err)
	}
	return plain, nil
}

// SetupKeys generates the payload encryption key pair.
func (a *BazaarApp) SetupKeys(passphrase string) error {
	return a.encryptor.Setup(passphrase)
}

// Backup writes a consistent copy of the store to dest.
func (a *BazaarApp) Backup(dest string) error {
	b, ok := a.storage.(database.Backuper)
	if !ok {
		return fmt.Errorf("store type %q does not support backup", a.cfg.Store.Type)
	}
	return b.BackupTo(dest)
}

// MigrationStatus reports the schema version of a sqlite store.
func (a *BazaarApp) MigrationStatus() (migrations.Status, error) {
	s, ok := a.storage.(*database.SQLiteStore)
	if !ok {
		return migrations.Status{}, fmt.Errorf("store type %q has no schema migrations", a.cfg.Store.Type)
	}
	return s.MigrationStatus()
}

// Close closes the store and the log file.
func (a *BazaarApp) Close() error {
	var firstErr error
	if err := a.storage.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
