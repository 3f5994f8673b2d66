package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/config"
	"github.com/halcyonlabs/argus/internal/database"
	"github.com/halcyonlabs/argus/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Asset{},
		&models.Threat{},
		&models.Vulnerability{},
		&models.ComplianceFramework{},
		&models.ComplianceControl{},
		&models.ComplianceAssessment{},
		&models.SecurityEvent{},
		&models.Notification{},
		&models.NotificationProvider{},
		&models.PostureSnapshot{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	// Demo organization
	org := models.Organization{
		Name:               "Acme Corp",
		Domain:             "acme.example.com",
		SubscriptionPlan:   "professional",
		SubscriptionStatus: "active",
	}
	result := db.Where("name = ?", org.Name).FirstOrCreate(&org)
	if result.Error != nil {
		log.Fatal("Failed to seed organization:", result.Error)
	}
	if result.RowsAffected > 0 {
		fmt.Printf("✓ Created organization: %s\n", org.Name)
	} else {
		fmt.Printf("  Organization already exists: %s\n", org.Name)
	}

	seedUsers(db, org.ID)
	assets := seedAssets(db, org.ID)
	seedThreats(db, org.ID)
	seedVulnerabilities(db, assets)
	seedCompliance(db, org.ID)
	seedEvents(db, org.ID)

	fmt.Println("\n✓ Database seeding completed successfully!")
	fmt.Println("  You can now start the application and see sample data.")
}

func seedUsers(db *gorm.DB, orgID uint) {
	adminPassword := os.Getenv("ARGUS_SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "ChangeMe123!"
	}

	users := []struct {
		email, username, first, last, role string
	}{
		{"admin@acme.example.com", "admin", "Ada", "Admin", "admin"},
		{"analyst@acme.example.com", "analyst", "Alex", "Analyst", "user"},
	}

	for _, u := range users {
		user := models.User{
			Email:          u.email,
			Username:       u.username,
			FirstName:      u.first,
			LastName:       u.last,
			Role:           u.role,
			Active:         true,
			OrganizationID: orgID,
		}
		if err := user.SetPassword(adminPassword); err != nil {
			log.Printf("Failed to hash password for %s: %v", u.email, err)
			continue
		}
		result := db.Where("email = ?", user.Email).FirstOrCreate(&user)
		if result.Error != nil {
			log.Printf("Failed to seed user %s: %v", u.email, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created user: %s (%s)\n", user.Email, user.Role)
		} else {
			fmt.Printf("  User already exists: %s\n", user.Email)
		}
	}
}

func seedAssets(db *gorm.DB, orgID uint) []models.Asset {
	assets := []models.Asset{
		{Name: "web-server-01", AssetType: "server", IPAddress: "10.0.1.10", Hostname: "web-server-01.internal", OSType: "linux", OSVersion: "Ubuntu 22.04", Criticality: "critical", Status: "active", OrganizationID: orgID},
		{Name: "db-server-01", AssetType: "server", IPAddress: "10.0.1.20", Hostname: "db-server-01.internal", OSType: "linux", OSVersion: "Debian 12", Criticality: "critical", Status: "active", OrganizationID: orgID},
		{Name: "corp-laptop-042", AssetType: "endpoint", IPAddress: "10.0.2.42", Hostname: "corp-laptop-042", OSType: "windows", OSVersion: "11", Criticality: "medium", Status: "active", OrganizationID: orgID},
		{Name: "office-firewall", AssetType: "network", IPAddress: "10.0.0.1", Hostname: "office-firewall", OSType: "other", Criticality: "high", Status: "active", OrganizationID: orgID},
		{Name: "billing-app", AssetType: "application", Hostname: "billing.acme.example.com", Criticality: "high", Status: "active", OrganizationID: orgID},
	}

	for i := range assets {
		result := db.Where("name = ? AND organization_id = ?", assets[i].Name, orgID).FirstOrCreate(&assets[i])
		if result.Error != nil {
			log.Printf("Failed to seed asset %s: %v", assets[i].Name, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created asset: %s (%s)\n", assets[i].Name, assets[i].AssetType)
		} else {
			fmt.Printf("  Asset already exists: %s\n", assets[i].Name)
		}
	}
	return assets
}

func seedThreats(db *gorm.DB, orgID uint) {
	now := time.Now().UTC()
	threats := []models.Threat{
		{Name: "Emotet variant detected", ThreatType: "malware", Severity: "critical", Status: "active", Source: "endpoint", DetectionMethod: "signature", DetectedAt: now.AddDate(0, 0, -2), IoCHash: "d41d8cd98f00b204e9800998ecf8427e", OrganizationID: orgID},
		{Name: "Credential phishing campaign", ThreatType: "phishing", Severity: "high", Status: "active", Source: "email", DetectionMethod: "ai", DetectedAt: now.AddDate(0, 0, -5), IoCDomain: "login-acme-portal.example.net", OrganizationID: orgID},
		{Name: "Port scan from external host", ThreatType: "intrusion", Severity: "medium", Status: "contained", Source: "network", DetectionMethod: "anomaly", DetectedAt: now.AddDate(0, 0, -9), IoCIP: "203.0.113.77", OrganizationID: orgID},
	}

	for i := range threats {
		result := db.Where("name = ? AND organization_id = ?", threats[i].Name, orgID).FirstOrCreate(&threats[i])
		if result.Error != nil {
			log.Printf("Failed to seed threat %s: %v", threats[i].Name, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created threat: %s [%s]\n", threats[i].Name, threats[i].Severity)
		} else {
			fmt.Printf("  Threat already exists: %s\n", threats[i].Name)
		}
	}
}

func seedVulnerabilities(db *gorm.DB, assets []models.Asset) {
	if len(assets) < 3 {
		return
	}
	now := time.Now().UTC()
	score := func(v float64) *float64 { return &v }
	vulns := []models.Vulnerability{
		{CVEID: "CVE-2024-6387", Title: "OpenSSH race condition (regreSSHion)", Severity: "critical", CVSSScore: score(8.1), Status: "open", AssetID: assets[0].ID, DetectedAt: now.AddDate(0, 0, -3), Remediation: "Upgrade openssh-server to a patched release."},
		{CVEID: "CVE-2023-44487", Title: "HTTP/2 rapid reset", Severity: "high", CVSSScore: score(7.5), Status: "in_progress", AssetID: assets[0].ID, DetectedAt: now.AddDate(0, 0, -7), Remediation: "Apply vendor mitigation and limit concurrent streams."},
		{CVEID: "CVE-2021-44228", Title: "Log4Shell in legacy billing module", Severity: "critical", CVSSScore: score(10.0), Status: "open", AssetID: assets[2].ID, DetectedAt: now.AddDate(0, 0, -1), Remediation: "Upgrade log4j to 2.17.1 or later."},
	}

	for i := range vulns {
		result := db.Where("cve_id = ? AND asset_id = ?", vulns[i].CVEID, vulns[i].AssetID).FirstOrCreate(&vulns[i])
		if result.Error != nil {
			log.Printf("Failed to seed vulnerability %s: %v", vulns[i].CVEID, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created vulnerability: %s [%s]\n", vulns[i].CVEID, vulns[i].Severity)
		} else {
			fmt.Printf("  Vulnerability already exists: %s\n", vulns[i].CVEID)
		}
	}
}

func seedCompliance(db *gorm.DB, orgID uint) {
	frameworks := []struct {
		name, version, description string
		controls                   []models.ComplianceControl
		statuses                   []string
	}{
		{
			name: "GDPR", version: "2016/679", description: "EU General Data Protection Regulation",
			controls: []models.ComplianceControl{
				{ControlID: "GDPR-1", Name: "Lawful basis for processing", Category: "governance"},
				{ControlID: "GDPR-2", Name: "Data subject access requests", Category: "rights"},
				{ControlID: "GDPR-3", Name: "Breach notification within 72 hours", Category: "incident"},
				{ControlID: "GDPR-4", Name: "Data protection by design", Category: "engineering"},
				{ControlID: "GDPR-5", Name: "Records of processing activities", Category: "governance"},
			},
			statuses: []string{
				models.AssessmentCompliant, models.AssessmentCompliant, models.AssessmentCompliant,
				models.AssessmentNonCompliant, models.AssessmentNonCompliant,
			},
		},
		{
			name: "PCI DSS", version: "4.0", description: "Payment Card Industry Data Security Standard",
			controls: []models.ComplianceControl{
				{ControlID: "PCI-1", Name: "Install and maintain network security controls", Category: "network"},
				{ControlID: "PCI-2", Name: "Apply secure configurations", Category: "hardening"},
				{ControlID: "PCI-3", Name: "Protect stored account data", Category: "data"},
				{ControlID: "PCI-4", Name: "Encrypt cardholder data in transit", Category: "data"},
				{ControlID: "PCI-5", Name: "Protect systems from malware", Category: "endpoint"},
			},
			statuses: []string{
				models.AssessmentCompliant, models.AssessmentCompliant, models.AssessmentCompliant,
				models.AssessmentPartiallyCompliant, models.AssessmentPartiallyCompliant,
			},
		},
	}

	for _, f := range frameworks {
		framework := models.ComplianceFramework{Name: f.name, Version: f.version, Description: f.description}
		result := db.Where("name = ?", f.name).FirstOrCreate(&framework)
		if result.Error != nil {
			log.Printf("Failed to seed framework %s: %v", f.name, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			fmt.Printf("✓ Created framework: %s %s\n", framework.Name, framework.Version)
		} else {
			fmt.Printf("  Framework already exists: %s\n", framework.Name)
		}

		for i := range f.controls {
			control := f.controls[i]
			control.FrameworkID = framework.ID
			result := db.Where("control_id = ? AND framework_id = ?", control.ControlID, framework.ID).FirstOrCreate(&control)
			if result.Error != nil {
				log.Printf("Failed to seed control %s: %v", control.ControlID, result.Error)
				continue
			}
			if result.RowsAffected > 0 {
				fmt.Printf("✓ Created control: %s\n", control.ControlID)
			}

			assessment := models.ComplianceAssessment{
				OrganizationID: orgID,
				ControlID:      control.ID,
				Status:         f.statuses[i],
			}
			result = db.Where("organization_id = ? AND control_id = ?", orgID, control.ID).FirstOrCreate(&assessment)
			if result.Error != nil {
				log.Printf("Failed to seed assessment for %s: %v", control.ControlID, result.Error)
			}
		}
	}
}

func seedEvents(db *gorm.DB, orgID uint) {
	now := time.Now().UTC()
	events := []models.SecurityEvent{
		{EventType: "authentication", Source: "application", Severity: "medium", Description: "Repeated failed logins for admin account", Username: "admin@acme.example.com", Action: "login", Status: "failure", Timestamp: now.AddDate(0, 0, -1), OrganizationID: orgID},
		{EventType: "network", Source: "firewall", Severity: "high", Description: "Outbound connection to known C2 address blocked", SourceIP: "10.0.2.42", DestinationIP: "203.0.113.77", Action: "connect", Status: "blocked", Timestamp: now.AddDate(0, 0, -2), OrganizationID: orgID},
		{EventType: "system", Source: "server", Severity: "info", Description: "Scheduled vulnerability scan completed", Action: "scan", Status: "success", Timestamp: now.AddDate(0, 0, -3), OrganizationID: orgID},
	}

	for i := range events {
		result := db.Where("description = ? AND organization_id = ?", events[i].Description, orgID).FirstOrCreate(&events[i])
		if result.Error != nil {
			log.Printf("Failed to seed event: %v", result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created event: %s\n", events[i].Description)
		}
	}
}
