package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// StorageAdapter provides blob storage operations using Google Cloud Storage
type StorageAdapter struct {
	Client *storage.Client
}

func (a *StorageAdapter) Write(ctx context.Context, bucketName, objectName string, data []byte) error {
	wc := a.Client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	if _, err := wc.Write(data); err != nil {
		return err
	}
	return wc.Close()
}

// ActivityObjectName is the archive location for a raw activity payload.
// Replayed events overwrite the same object.
func ActivityObjectName(athleteID, activityID int64) string {
	return fmt.Sprintf("activities/%d/%d.json", athleteID, activityID)
}
