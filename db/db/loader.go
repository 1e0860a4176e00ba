package db

import (
	"github.com/google/uuid"
	"github.com/vikstrous/dataloadgen"
)

type dataLoaderKey string

const (
	DataLoaderKeyWalletData dataLoaderKey = "wallet_data_loader"
)

// dataLoader, ok := ctx.Value(db.DataLoaderKeyWalletData).(*db.WalletDataLoader)
//
//	if !ok {
//		return nil, fmt.Errorf("data loader is not available")
//	}
type WalletDataLoader struct {
	GetWalletInfoList   *dataloadgen.Loader[uuid.UUID, *WalletInfo]
	GetWalletIntentList *dataloadgen.Loader[uuid.UUID, []IntentRecord]
}

func NewWalletDataLoader(dbWrapper WalletDBWrapper) *WalletDataLoader {
	return &WalletDataLoader{
		GetWalletInfoList:   dataloadgen.NewMappedLoader(dbWrapper.DataLoaderGetWalletInfoList),
		GetWalletIntentList: dataloadgen.NewMappedLoader(dbWrapper.DataLoaderGetWalletIntentList),
	}
}
