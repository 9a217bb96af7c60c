package proverstate

import "testing"

// generatorSnarkJsVK builds a syntactically valid snarkjs VK using the BN254
// G1/G2 generator points (Z=1 Jacobian, so affine_x = X, affine_y = Y)
// purely to exercise TryAsOnchainRepr's decode/convert/encode path.
func generatorSnarkJsVK() SnarkJsGroth16VerificationKey {
	g1 := [3]string{"1", "2", "1"}
	g2 := [3][2]string{
		{
			"10857046999023057135944570762232829481370756359578518086990519993285655852781",
			"11559732032986387107991004021392285783925812861821192530917403151452391805634",
		},
		{
			"8495653923123431417604973247489272438418190587263600148770280649306958101930",
			"4082367875863433681332203403145435568316851327593401208105741076214120093531",
		},
		{"1", "0"},
	}
	return SnarkJsGroth16VerificationKey{
		VkAlpha1: g1,
		VkBeta2:  g2,
		VkGamma2: g2,
		VkDelta2: g2,
		IC:       [][3]string{g1, g1},
	}
}

func TestTryAsOnchainReprSucceedsOnGeneratorPoints(t *testing.T) {
	vk := generatorSnarkJsVK()
	onchain, err := vk.TryAsOnchainRepr()
	if err != nil {
		t.Fatalf("TryAsOnchainRepr() error: %v", err)
	}
	if onchain.Type != "0x1::keyless_account::Groth16VerificationKey" {
		t.Fatalf("Type = %q", onchain.Type)
	}
	if onchain.Data.AlphaG1 == "" || onchain.Data.BetaG2 == "" || onchain.Data.DeltaG2 == "" || onchain.Data.GammaG2 == "" {
		t.Fatalf("expected every curve point field to be populated, got %+v", onchain.Data)
	}
	if len(onchain.Data.GammaAbcG1) != 2 {
		t.Fatalf("GammaAbcG1 length = %d, want 2", len(onchain.Data.GammaAbcG1))
	}
}

func TestTryAsOnchainReprIsDeterministic(t *testing.T) {
	vk := generatorSnarkJsVK()
	first, err := vk.TryAsOnchainRepr()
	if err != nil {
		t.Fatalf("first conversion error: %v", err)
	}
	second, err := vk.TryAsOnchainRepr()
	if err != nil {
		t.Fatalf("second conversion error: %v", err)
	}
	if !vkEqual(first, second) {
		t.Fatalf("expected two conversions of the same VK to be equal")
	}
}

func TestTryAsOnchainReprRejectsTooFewICEntries(t *testing.T) {
	vk := generatorSnarkJsVK()
	vk.IC = vk.IC[:1]
	if _, err := vk.TryAsOnchainRepr(); err == nil {
		t.Fatalf("expected an error with fewer than 2 IC entries")
	}
}

func TestTryAsOnchainReprRejectsMalformedDecimal(t *testing.T) {
	vk := generatorSnarkJsVK()
	vk.VkAlpha1[0] = "not-a-number"
	if _, err := vk.TryAsOnchainRepr(); err == nil {
		t.Fatalf("expected an error for a malformed field element")
	}
}

func TestTryAsOnchainReprRejectsPointAtInfinity(t *testing.T) {
	vk := generatorSnarkJsVK()
	vk.VkAlpha1 = [3]string{"1", "2", "0"}
	if _, err := vk.TryAsOnchainRepr(); err == nil {
		t.Fatalf("expected an error converting a Z=0 point at infinity")
	}
}
