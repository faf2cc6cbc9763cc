package usecase

import "time"

// Clock overrides for tests in package usecase_test.

func (uc *FinancialUseCase) SetNow(now func() time.Time) { uc.now = now }

func (uc *InventoryUseCase) SetNow(now func() time.Time) { uc.now = now }

func (uc *OverviewUseCase) SetNow(now func() time.Time) { uc.now = now }

func (uc *DigestUseCase) SetNow(now func() time.Time) { uc.now = now }

func (uc *SalesUseCase) SetNow(now func() time.Time) { uc.book.now = now }

func (uc *PurchaseUseCase) SetNow(now func() time.Time) { uc.book.now = now }
