package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/models"
)

type AssetService struct {
	db *gorm.DB
}

func NewAssetService(db *gorm.DB) *AssetService {
	return &AssetService{db: db}
}

// List returns the organization's assets ordered by name.
func (s *AssetService) List(orgID uint) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.db.Where("organization_id = ?", orgID).Order("name ASC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// Get loads one asset within the organization.
func (s *AssetService) Get(orgID, assetID uint) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.Where("id = ? AND organization_id = ?", assetID, orgID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// Create adds an asset to the organization.
func (s *AssetService) Create(orgID uint, asset *models.Asset) error {
	asset.OrganizationID = orgID
	if asset.Status == "" {
		asset.Status = "active"
	}
	if asset.Criticality == "" {
		asset.Criticality = "medium"
	}
	return s.db.Create(asset).Error
}

// Columns a tenant may change on its own assets. Ownership and identity
// columns stay out of reach of request payloads.
var assetMutableColumns = map[string]bool{
	"name":        true,
	"asset_type":  true,
	"ip_address":  true,
	"hostname":    true,
	"os_type":     true,
	"os_version":  true,
	"criticality": true,
	"status":      true,
}

// Update applies field changes to an asset of the organization.
func (s *AssetService) Update(orgID, assetID uint, updates map[string]interface{}) (*models.Asset, error) {
	asset, err := s.Get(orgID, assetID)
	if err != nil {
		return nil, err
	}

	filtered := make(map[string]interface{}, len(updates))
	for column, value := range updates {
		if assetMutableColumns[column] {
			filtered[column] = value
		}
	}
	if len(filtered) == 0 {
		return asset, nil
	}

	if err := s.db.Model(asset).Updates(filtered).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

// Delete removes an asset. Deletion is blocked with ErrConflict while any
// vulnerability still references the asset.
func (s *AssetService) Delete(orgID, assetID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := tx.Where("id = ? AND organization_id = ?", assetID, orgID).First(&asset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var dependents int64
		if err := tx.Model(&models.Vulnerability{}).Where("asset_id = ?", asset.ID).Count(&dependents).Error; err != nil {
			return err
		}
		if dependents > 0 {
			return ErrConflict
		}

		return tx.Delete(&asset).Error
	})
}

// Count returns the number of assets the organization owns.
func (s *AssetService) Count(orgID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Asset{}).Where("organization_id = ?", orgID).Count(&count).Error
	return count, err
}
