package storage

import (
	"encoding/json"
	"errors"

	"agentprog/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Versioned stamps the current schema and codec versions.
func Versioned() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeTable(t model.TableRecord) ([]byte, error) {
	return json.Marshal(t)
}

func DecodeTable(data []byte) (model.TableRecord, error) {
	var table model.TableRecord
	if err := json.Unmarshal(data, &table); err != nil {
		return model.TableRecord{}, err
	}
	if err := checkVersion(table.VersionedRecord); err != nil {
		return model.TableRecord{}, err
	}
	return table, nil
}

func EncodeEpisode(e model.EpisodeRecord) ([]byte, error) {
	return json.Marshal(e)
}

func DecodeEpisode(data []byte) (model.EpisodeRecord, error) {
	var episode model.EpisodeRecord
	if err := json.Unmarshal(data, &episode); err != nil {
		return model.EpisodeRecord{}, err
	}
	if err := checkVersion(episode.VersionedRecord); err != nil {
		return model.EpisodeRecord{}, err
	}
	return episode, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
