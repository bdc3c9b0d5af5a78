package config

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/dbwatch/ora-monitoring/database/docdb"

	"github.com/pingcap/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	reportModule = "report"
)

func LoadConfigFromStorage(ctx context.Context, db docdb.DocDB) error {
	cfgMap, err := db.LoadConfig(ctx)
	if err != nil {
		return err
	}
	UpdateGlobalConfig(func(curCfg Config) (res Config) {
		res = curCfg
		for module, cfgStr := range cfgMap {
			switch module {
			case reportModule:
				newCfg := curCfg.Report
				if err = json.NewDecoder(bytes.NewReader([]byte(cfgStr))).Decode(&newCfg); err != nil {
					return
				}
				if newCfg.Valid() {
					res.Report = newCfg
				} else {
					log.Info("load invalid config",
						zap.String("module", module),
						zap.Reflect("module-config", newCfg))
				}
			default:
				err = errors.Errorf("unknown module config in storage, module: %v, config: %v", module, cfgStr)
				return
			}
			log.Info("load config from storage",
				zap.String("module", module),
				zap.String("module-config", cfgStr))
		}
		return
	})
	return err
}

func SaveConfigIntoStorage(ctx context.Context, db docdb.DocDB) error {
	cfg := GetGlobalConfig()
	data, err := json.Marshal(cfg.Report)
	if err != nil {
		return err
	}
	return db.SaveConfig(ctx, map[string]string{
		reportModule: string(data),
	})
}
