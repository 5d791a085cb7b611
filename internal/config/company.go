package config

import (
	"os"
	"sync"
)

type CompanyConfig struct {
	Name            string
	ContractBaseURL string
	PublicBaseURL   string
	FrontendURL     string
}

var (
	companyConfig *CompanyConfig
	companyOnce   sync.Once
)

func LoadCompanyConfig() *CompanyConfig {
	companyOnce.Do(func() {
		companyConfig = &CompanyConfig{
			Name:            os.Getenv("COMPANY_NAME"),
			ContractBaseURL: os.Getenv("CONTRACT_BASE_URL"),
			PublicBaseURL:   os.Getenv("PUBLIC_BASE_URL"),
			FrontendURL:     os.Getenv("FRONTEND_URL"),
		}
		if companyConfig.Name == "" {
			companyConfig.Name = "HireOS"
		}
	})
	return companyConfig
}
