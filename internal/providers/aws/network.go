package aws

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"go4.org/netipx"

	"netreconciler/internal/models"
	"netreconciler/pkg/logging"
)

const nameTag = "Name"

// NetworkService reports EC2 subnets as cidr records and elastic network
// interfaces as ip records.
type NetworkService struct {
	client EC2ClientAPI
	vpcID  string
	logger logging.Logger
}

// NewNetworkServiceWithDefaultConfig creates a new NetworkService with the default AWS SDK configuration.
// An empty region falls back to the SDK's own resolution (env, shared config).
func NewNetworkServiceWithDefaultConfig(ctx context.Context, region, vpcID string, logger logging.Logger) (*NetworkService, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return NewNetworkServiceWithClient(ec2.NewFromConfig(cfg), vpcID, logger), nil
}

// NewNetworkServiceWithClient creates a new NetworkService with a provided client.
// A non-empty vpcID restricts every query to that VPC.
func NewNetworkServiceWithClient(client EC2ClientAPI, vpcID string, logger logging.Logger) *NetworkService {
	return &NetworkService{
		client: client,
		vpcID:  vpcID,
		logger: logger,
	}
}

// FetchRecords lists subnets and network interfaces and converts them to records.
// Subnets come first, followed by interfaces, each in API order.
func (s *NetworkService) FetchRecords(ctx context.Context) ([]models.Record, error) {
	subnets, err := s.listSubnets(ctx)
	if err != nil {
		return nil, err
	}

	interfaces, err := s.listNetworkInterfaces(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(subnets)+len(interfaces))
	prefixes := make(map[string]netip.Prefix, len(subnets))

	for _, subnet := range subnets {
		record, prefix := subnetRecord(subnet)
		records = append(records, record)
		if prefix.IsValid() {
			prefixes[aws.ToString(subnet.SubnetId)] = prefix
		}
	}

	for _, eni := range interfaces {
		records = append(records, interfaceRecord(eni, prefixes))
	}

	s.logger.Debug("Fetched %d subnets and %d network interfaces", len(subnets), len(interfaces))
	return records, nil
}

func (s *NetworkService) listSubnets(ctx context.Context) ([]types.Subnet, error) {
	var subnets []types.Subnet
	var token *string

	for {
		resp, err := s.client.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
			Filters:   s.filters(),
			NextToken: token,
		})
		if err != nil {
			return nil, ClassifyAWSError(err, SubnetResourceType, s.vpcID)
		}

		subnets = append(subnets, resp.Subnets...)
		if aws.ToString(resp.NextToken) == "" {
			return subnets, nil
		}
		token = resp.NextToken
	}
}

func (s *NetworkService) listNetworkInterfaces(ctx context.Context) ([]types.NetworkInterface, error) {
	var interfaces []types.NetworkInterface
	var token *string

	for {
		resp, err := s.client.DescribeNetworkInterfaces(ctx, &ec2.DescribeNetworkInterfacesInput{
			Filters:   s.filters(),
			NextToken: token,
		})
		if err != nil {
			return nil, ClassifyAWSError(err, NetworkInterfaceResourceType, s.vpcID)
		}

		interfaces = append(interfaces, resp.NetworkInterfaces...)
		if aws.ToString(resp.NextToken) == "" {
			return interfaces, nil
		}
		token = resp.NextToken
	}
}

func (s *NetworkService) filters() []types.Filter {
	if s.vpcID == "" {
		return nil
	}
	return []types.Filter{
		{
			Name:   aws.String("vpc-id"),
			Values: []string{s.vpcID},
		},
	}
}

// subnetRecord converts a subnet to a cidr record carrying its IPv4 block
// and any associated IPv6 blocks.
func subnetRecord(subnet types.Subnet) (models.Record, netip.Prefix) {
	id := aws.ToString(subnet.SubnetId)

	var cidrs []string
	var prefix netip.Prefix
	if subnet.CidrBlock != nil {
		cidrs = append(cidrs, aws.ToString(subnet.CidrBlock))
		if p, err := netip.ParsePrefix(aws.ToString(subnet.CidrBlock)); err == nil {
			prefix = p
		}
	}
	for _, assoc := range subnet.Ipv6CidrBlockAssociationSet {
		if assoc.Ipv6CidrBlock != nil {
			cidrs = append(cidrs, aws.ToString(assoc.Ipv6CidrBlock))
		}
	}

	record := models.NewRecord(tagValue(subnet.Tags, nameTag, id), models.RecordTypeCIDR, map[string]models.Value{
		"cidrs": models.List(cidrs...),
	})
	return record, prefix
}

// interfaceRecord converts a network interface to an ip record. The subnet
// mask comes from the interface's subnet and is null when that subnet is unknown.
func interfaceRecord(eni types.NetworkInterface, prefixes map[string]netip.Prefix) models.Record {
	id := aws.ToString(eni.NetworkInterfaceId)

	fields := map[string]models.Value{
		"ip":          optionalString(eni.PrivateIpAddress),
		"mac":         optionalString(eni.MacAddress),
		"subnet_mask": models.Null(),
	}
	if prefix, ok := prefixes[aws.ToString(eni.SubnetId)]; ok {
		fields["subnet_mask"] = models.String(subnetMask(prefix))
	}

	return models.NewRecord(tagValue(eni.TagSet, nameTag, id), models.RecordTypeIP, fields)
}

// subnetMask renders the prefix length in dotted form, e.g. /24 as 255.255.255.0.
func subnetMask(prefix netip.Prefix) string {
	ipNet := netipx.PrefixIPNet(prefix.Masked())
	return net.IP(ipNet.Mask).String()
}

func optionalString(s *string) models.Value {
	if s == nil {
		return models.Null()
	}
	return models.String(*s)
}

// tagValue returns the value of the tag named key, or fallback when unset.
func tagValue(tags []types.Tag, key, fallback string) string {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == key && aws.ToString(tag.Value) != "" {
			return aws.ToString(tag.Value)
		}
	}
	return fallback
}
