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

// ModifyConfig applies a nested JSON object such as
// {"report": {"synthesize_trend": true}} to the global config and persists the
// modified modules. Only the report module can be modified.
func ModifyConfig(ctx context.Context, db docdb.DocDB, raw []byte) error {
	var reqNested map[string]interface{}
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&reqNested); err != nil {
		return errors.Wrap(err, "failed to decode config modification")
	}
	if len(reqNested) == 0 {
		return errors.New("empty config modification")
	}
	for k, v := range reqNested {
		switch k {
		case reportModule:
			m, ok := v.(map[string]interface{})
			if !ok {
				return errors.Errorf("%v config value is invalid: %v", k, v)
			}
			if err := handleReportConfigModify(m); err != nil {
				return err
			}
		default:
			return errors.Errorf("config %v not support modify or unknown", k)
		}
	}
	return SaveConfigIntoStorage(ctx, db)
}

func handleReportConfigModify(reqNested map[string]interface{}) error {
	cfg := GetGlobalConfig()
	current, err := json.Marshal(cfg.Report)
	if err != nil {
		return err
	}

	var currentNested map[string]interface{}
	if err := json.NewDecoder(bytes.NewReader(current)).Decode(&currentNested); err != nil {
		return err
	}

	for k, newValue := range reqNested {
		oldValue, ok := currentNested[k]
		if !ok {
			return errors.Errorf("unknown config `%v`", k)
		}
		if oldValue == newValue {
			continue
		}
		currentNested[k] = newValue
		log.Info("handle report config modify",
			zap.String("name", k),
			zap.Reflect("old-value", oldValue),
			zap.Reflect("new-value", newValue))
	}

	data, err := json.Marshal(currentNested)
	if err != nil {
		return err
	}
	var newCfg Report
	if err = json.NewDecoder(bytes.NewReader(data)).Decode(&newCfg); err != nil {
		return err
	}

	if !newCfg.Valid() {
		return errors.Errorf("new config is invalid: %v", string(data))
	}
	cfg.Report = newCfg
	StoreGlobalConfig(cfg)
	return nil
}
