package services

import (
	"moodnest/internal/crypto"
	"moodnest/internal/models"
)

// EncryptionService wraps the cipher with domain-specific methods so handlers
// never touch raw crypto.
type EncryptionService struct {
	cipher *crypto.Cipher
}

func NewEncryptionService(encryptionKey, blindIndexKey []byte) (*EncryptionService, error) {
	c, err := crypto.NewCipher(encryptionKey, blindIndexKey)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{cipher: c}, nil
}

// EncryptUser encrypts the email and fills the blind index used for lookups.
func (s *EncryptionService) EncryptUser(user *models.User) error {
	blindIndex := s.cipher.BlindIndex(user.Email)
	encrypted, err := s.cipher.Encrypt(user.Email)
	if err != nil {
		return err
	}
	user.Email = encrypted
	user.EmailBlindIndex = blindIndex
	return nil
}

func (s *EncryptionService) DecryptUser(user *models.User) error {
	email, err := s.cipher.Decrypt(user.Email)
	if err != nil {
		return err
	}
	user.Email = email
	return nil
}

// EmailBlindIndex derives the lookup key for an email without encrypting it.
func (s *EncryptionService) EmailBlindIndex(email string) string {
	return s.cipher.BlindIndex(email)
}

func (s *EncryptionService) EncryptJournal(entry *models.JournalEntry) error {
	content, err := s.cipher.Encrypt(entry.Content)
	if err != nil {
		return err
	}
	entry.Content = content
	return nil
}

func (s *EncryptionService) DecryptJournal(entry *models.JournalEntry) error {
	content, err := s.cipher.Decrypt(entry.Content)
	if err != nil {
		return err
	}
	entry.Content = content
	return nil
}

func (s *EncryptionService) EncryptMood(entry *models.MoodEntry) error {
	text, err := s.cipher.Encrypt(entry.OriginalText)
	if err != nil {
		return err
	}
	entry.OriginalText = text
	return nil
}

func (s *EncryptionService) DecryptMood(entry *models.MoodEntry) error {
	text, err := s.cipher.Decrypt(entry.OriginalText)
	if err != nil {
		return err
	}
	entry.OriginalText = text
	return nil
}
