// Package service 提供了档案检索相关的业务逻辑。
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"vault-archive-go/internal/model"
	"vault-archive-go/internal/repository"
	"vault-archive-go/pkg/es"
	"vault-archive-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
)

// SearchService 接口定义了档案全文检索操作。
type SearchService interface {
	Search(ctx context.Context, query string, topK int) ([]model.File, error)
	// Index 将档案写入检索索引，同时实现了 FileIndexer。
	Index(ctx context.Context, file *model.File) error
}

type searchService struct {
	esClient  *elasticsearch.Client
	indexName string
	fileRepo  repository.FileRepository
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(esClient *elasticsearch.Client, indexName string, fileRepo repository.FileRepository) SearchService {
	return &searchService{
		esClient:  esClient,
		indexName: indexName,
		fileRepo:  fileRepo,
	}
}

// esSearchResponse 只解码我们关心的命中 ID 部分。
type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				FileID uint `json:"file_id"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search 在索引上做全文匹配，再回数据库取完整记录。
// 数据库是唯一权威数据源，索引里已删除或落后的条目会被自然过滤。
func (s *searchService) Search(ctx context.Context, query string, topK int) ([]model.File, error) {
	log.Infof("[SearchService] 开始执行档案检索, query: '%s', topK: %d", query, topK)

	var buf bytes.Buffer
	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query": query,
				"fields": []string{
					"file_number^3",
					"title^2",
					"content",
					"recovered_logs",
					"habitat",
					"behavior",
					"weaknesses",
				},
			},
		},
		"size": topK,
	}
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("构建检索查询失败: %w", err)
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(s.indexName),
		s.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("执行检索请求失败: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("[SearchService] Elasticsearch 返回错误: %s", res.String())
		return nil, fmt.Errorf("检索请求返回错误状态: %s", res.Status())
	}

	var parsed esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("解析检索响应失败: %w", err)
	}

	ids := make([]uint, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		ids = append(ids, hit.Source.FileID)
	}
	if len(ids) == 0 {
		return []model.File{}, nil
	}

	files, err := s.fileRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	// 按 ES 的相关度顺序重排数据库返回的记录
	byID := make(map[uint]model.File, len(files))
	for _, f := range files {
		byID[f.ID] = f
	}
	ordered := make([]model.File, 0, len(ids))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			ordered = append(ordered, f)
		}
	}

	log.Infof("[SearchService] 检索完成, query: '%s', 返回 %d 条结果", query, len(ordered))
	return ordered, nil
}

// Index 将单条档案写入 Elasticsearch 索引。
func (s *searchService) Index(ctx context.Context, file *model.File) error {
	doc := es.FileDocument{
		FileID:     file.ID,
		FileNumber: file.FileNumber,
		Title:      file.Title,
		Content:    file.Content,
		FileType:   file.FileType,
		Severity:   file.Severity,
	}
	if file.RecoveredLogs != nil {
		doc.RecoveredLogs = *file.RecoveredLogs
	}
	if file.Habitat != nil {
		doc.Habitat = *file.Habitat
	}
	if file.Behavior != nil {
		doc.Behavior = *file.Behavior
	}
	if file.Weaknesses != nil {
		doc.Weaknesses = *file.Weaknesses
	}
	return es.IndexFileDocument(ctx, s.indexName, doc)
}
