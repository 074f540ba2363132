package services

import (
	"github.com/applytrack/applytrack/internal/db/models"
)

func (s *ServiceTestSuite) TestCompanyLifecycle() {
	company := s.createCompany("  Initech ")
	s.Equal("Initech", company.Name)
	s.Equal(s.ownerID, company.OwnerID)

	err := s.companies.Create(s.ctx, s.ownerID, &models.Company{Name: "Initech"})
	s.ErrorIs(err, ErrConflict)

	err = s.companies.Create(s.ctx, s.ownerID, &models.Company{Name: ""})
	s.ErrorIs(err, ErrInvalidArgument)

	got, err := s.companies.Get(s.ctx, s.ownerID, company.ID)
	s.Require().NoError(err)
	s.Equal(company.ID, got.ID)

	_, err = s.companies.Get(s.ctx, "someone-else", company.ID)
	s.ErrorIs(err, ErrNotFound)

	list, err := s.companies.List(s.ctx, s.ownerID, nil)
	s.Require().NoError(err)
	s.Len(list, 1)

	exists, err := s.companies.CompanyExists(s.ctx, company.ID, s.ownerID)
	s.Require().NoError(err)
	s.True(exists)
	exists, err = s.companies.CompanyExists(s.ctx, 0, s.ownerID)
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.companies.Delete(s.ctx, s.ownerID, company.ID))
	s.ErrorIs(s.companies.Delete(s.ctx, s.ownerID, company.ID), ErrNotFound)
}

func (s *ServiceTestSuite) TestCompanyDeleteRefusedWhileReferenced() {
	app := s.createApplication(nil)

	err := s.companies.Delete(s.ctx, s.ownerID, app.CompanyID)
	s.ErrorIs(err, ErrConflict)

	s.Require().NoError(s.lifecycle.Delete(s.ctx, app.ID, s.ownerID))
	s.NoError(s.companies.Delete(s.ctx, s.ownerID, app.CompanyID))
}
