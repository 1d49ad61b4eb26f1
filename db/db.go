// Package db looks up song catalog metadata in DynamoDB. The lookup is
// optional: with no endpoint configured every query resolves empty and the
// generator falls back to filename-derived tags.
package db

import (
	"strconv"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/model"
	"github.com/Johell1NS/StepGenerator/util"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

const tableName = "stepgenerator-metadata"

// batchGetItem caps keys at 100 but small batches keep the local dynamo
// happy.
const batchSize = 10

func GetSongMetadatas(filenames []string) map[string]model.SongMetadata {
	res := make(map[string]model.SongMetadata)

	endpoint := constants.GetMetadataEndpoint()
	if endpoint == "" || len(filenames) == 0 {
		return res
	}

	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		panic("Could not create a new DynamoDB session because " + err.Error())
	}
	client := dynamodb.New(sess)

	for start := 0; start < len(filenames); start += batchSize {
		end := util.Min(start+batchSize, len(filenames))
		fetchBatch(client, filenames[start:end], res)
	}

	return res
}

func fetchBatch(client *dynamodb.DynamoDB, filenames []string, res map[string]model.SongMetadata) {
	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(filename)},
		})
	}

	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			tableName: {Keys: keys},
		},
	}
	dbres, err := client.BatchGetItem(input)
	if err != nil {
		panic("Error from DynamoDB: " + err.Error())
	}

	for _, v := range dbres.Responses[tableName] {
		var s model.SongMetadata
		if v["Year"] != nil && v["Year"].N != nil {
			year, _ := strconv.ParseUint(*v["Year"].N, 10, 32)
			s.Year = uint(year)
		}
		if v["Artist"] != nil && v["Artist"].S != nil {
			s.Artist = *v["Artist"].S
		}
		if v["Release"] != nil && v["Release"].S != nil {
			s.Release = *v["Release"].S
		}
		if v["Title"] != nil && v["Title"].S != nil {
			s.Title = *v["Title"].S
		}
		res[*v["PK"].S] = s
	}
}
